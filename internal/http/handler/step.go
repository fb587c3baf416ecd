package handler

import (
	"github.com/gofiber/fiber/v2"

	"progressapi/internal/service"
)

// GetHierarchy returns the client's two-level project view for detail and
// onboarding screens.
func GetHierarchy(svc service.ProgressService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roots, err := svc.Hierarchy(c.UserContext(), c.Params("clientId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": roots})
	}
}

// GetStatus returns the client's progress summary for list and dashboard
// views.
func GetStatus(svc service.ProgressService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := svc.Status(c.UserContext(), c.Params("clientId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": st})
	}
}

// ListSteps returns the client's flat step list.
func ListSteps(svc service.ProgressService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		steps, err := svc.ListSteps(c.UserContext(), c.Params("clientId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": steps})
	}
}

// CreateStep adds a manual progress step for a client.
func CreateStep(svc service.ProgressService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateStepInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		in.ClientID = c.Params("clientId")
		step, err := svc.CreateStep(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(step)
	}
}

// GetStep returns a single step with its comments.
func GetStep(svc service.ProgressService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		step, err := svc.GetStep(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(step)
	}
}

// UpdateStep applies a partial edit to a step.
func UpdateStep(svc service.ProgressService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.UpdateStepInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		step, err := svc.UpdateStep(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(step)
	}
}

// DeleteStep removes a step.
func DeleteStep(svc service.ProgressService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.DeleteStep(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// CompleteStep marks a step completed, cascading to package children.
func CompleteStep(svc service.ProgressService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		step, err := svc.CompleteStep(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(step)
	}
}

// UncompleteStep reverses a completion, cascading to package children.
func UncompleteStep(svc service.ProgressService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		step, err := svc.UncompleteStep(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(step)
	}
}

type milestoneDeadlineBody struct {
	Deadline string `json:"deadline"`
}

// SetMilestoneDeadline rewrites one milestone deadline on a package step.
func SetMilestoneDeadline(svc service.ProgressService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body milestoneDeadlineBody
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		step, err := svc.SetMilestoneDeadline(c.UserContext(), c.Params("id"), c.Params("milestone"), body.Deadline)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(step)
	}
}

// CompleteMilestone marks one milestone done.
func CompleteMilestone(svc service.ProgressService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		step, err := svc.CompleteMilestone(c.UserContext(), c.Params("id"), c.Params("milestone"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(step)
	}
}

// UncompleteMilestone clears one milestone's completion.
func UncompleteMilestone(svc service.ProgressService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		step, err := svc.UncompleteMilestone(c.UserContext(), c.Params("id"), c.Params("milestone"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(step)
	}
}
