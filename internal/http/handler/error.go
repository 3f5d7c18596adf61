package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"doclib/internal/http/middleware"
	"doclib/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Retryable tells the client that repeating the same action is safe.
	Retryable bool `json:"retryable,omitempty"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

// writeServiceError converts a service error into the response for this action.
// The original error is kept in locals for the request log.
func writeServiceError(c *fiber.Ctx, err error) error {
	c.Locals(middleware.ErrorLocalKey, err)

	var (
		storageErr *service.StorageError
		dbErr      *service.DatabaseError
	)
	switch {
	case errors.Is(err, service.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrAuth):
		return writeError(c, fiber.StatusUnauthorized, "AUTH_ERROR", err.Error())
	case errors.Is(err, service.ErrDuplicateName):
		return writeError(c, fiber.StatusConflict, "DUPLICATE_NAME", "a subject with this name already exists")
	case errors.Is(err, service.ErrSubjectInUse):
		return writeError(c, fiber.StatusConflict, "SUBJECT_IN_USE", "subject still has documents")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.As(err, &storageErr):
		return writeError(c, fiber.StatusBadGateway, "STORAGE_ERROR", "file storage operation failed")
	case errors.As(err, &dbErr):
		if dbErr.Retryable {
			return c.Status(fiber.StatusServiceUnavailable).JSON(errorPayload{
				RequestID: middleware.RequestIDFromCtx(c),
				Error: errorEnvelope{
					Code:      "DATABASE_ERROR",
					Message:   "metadata operation failed, retry the action",
					Retryable: true,
				},
			})
		}
		return writeError(c, fiber.StatusInternalServerError, "DATABASE_ERROR", "metadata operation failed")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", fe.Message)
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "upload exceeds the size limit")
		case fiber.StatusServiceUnavailable:
			return writeError(c, status, "SERVICE_UNAVAILABLE", "dependency unavailable")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
