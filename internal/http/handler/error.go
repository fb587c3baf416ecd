package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"progressapi/internal/http/middleware"
	"progressapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// FailedIDs is only present on partial cascade failures, so the caller
	// knows which child steps to retry.
	FailedIDs []string `json:"failed_ids,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking
// internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates the service error taxonomy to HTTP.
// Validation errors carry their own safe messages; everything unexpected is
// reported as a generic internal error.
func writeServiceError(c *fiber.Ctx, err error) error {
	var cascadeErr *service.PartialCascadeError
	switch {
	case service.IsValidationError(err):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.As(err, &cascadeErr):
		res := errorPayload{
			RequestID: requestIDFromCtx(c),
			Error: errorEnvelope{
				Code:      "PARTIAL_CASCADE_FAILURE",
				Message:   "some child steps were not updated; retry the listed ids",
				FailedIDs: cascadeErr.FailedIDs,
			},
		}
		return c.Status(fiber.StatusBadGateway).JSON(res)
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
