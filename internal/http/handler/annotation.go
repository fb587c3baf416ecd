package handler

import (
	"github.com/gofiber/fiber/v2"

	"progressapi/internal/service"
)

// AddComment appends a comment to a step. Attachments must already be
// uploaded via an upload target; the body carries their public URL.
func AddComment(svc service.AnnotationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CommentInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		comment, err := svc.AddComment(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(comment)
	}
}

// DeleteComment removes one comment from a step.
func DeleteComment(svc service.AnnotationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.DeleteComment(c.UserContext(), c.Params("id"), c.Params("commentId")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListClientFiles returns a client's attached files.
func ListClientFiles(svc service.AnnotationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		files, err := svc.ListClientFiles(c.UserContext(), c.Params("clientId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": files})
	}
}

// AddClientFile records an already-uploaded file against a client.
func AddClientFile(svc service.AnnotationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.FileInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		f, err := svc.AddClientFile(c.UserContext(), c.Params("clientId"), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(f)
	}
}

// DeleteClientFile removes a client file record and its stored object.
func DeleteClientFile(svc service.AnnotationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.DeleteClientFile(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListClientLinks returns a client's external links.
func ListClientLinks(svc service.AnnotationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		links, err := svc.ListClientLinks(c.UserContext(), c.Params("clientId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": links})
	}
}

// AddClientLink attaches an external link to a client.
func AddClientLink(svc service.AnnotationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.LinkInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		l, err := svc.AddClientLink(c.UserContext(), c.Params("clientId"), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(l)
	}
}

// DeleteClientLink removes a client link.
func DeleteClientLink(svc service.AnnotationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.DeleteClientLink(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type uploadTargetBody struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

// RequestUpload issues a presigned upload target for an attachment.
func RequestUpload(svc service.AnnotationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body uploadTargetBody
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		target, err := svc.RequestUploadTarget(c.UserContext(), body.FileName, body.ContentType)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(target)
	}
}
