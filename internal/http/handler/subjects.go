package handler

import (
	"github.com/gofiber/fiber/v2"

	"doclib/internal/service"
)

type subjectRequest struct {
	Name string `json:"name"`
}

// ListSubjects handles GET /subjects
func ListSubjects(subjectSvc service.SubjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := principal(c)
		if !ok {
			return unauthorized(c)
		}
		items, err := subjectSvc.List(c.UserContext(), p.UserID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items, "total": len(items)})
	}
}

// CreateSubject handles POST /subjects with {name}.
func CreateSubject(subjectSvc service.SubjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := principal(c)
		if !ok {
			return unauthorized(c)
		}
		var req subjectRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		sub, err := subjectSvc.Add(c.UserContext(), p.UserID, req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(sub)
	}
}

// RenameSubject handles PATCH /subjects/:id with {name}.
func RenameSubject(subjectSvc service.SubjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := principal(c)
		if !ok {
			return unauthorized(c)
		}
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req subjectRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		sub, err := subjectSvc.Rename(c.UserContext(), p.UserID, id, req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sub)
	}
}

// DeleteSubject handles DELETE /subjects/:id
func DeleteSubject(subjectSvc service.SubjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := principal(c)
		if !ok {
			return unauthorized(c)
		}
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := subjectSvc.Delete(c.UserContext(), p.UserID, id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
