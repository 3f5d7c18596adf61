package handler

import (
	"github.com/gofiber/fiber/v2"

	"doclib/internal/service"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp handles POST /auth/signup
func SignUp(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req credentialsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		u, err := authSvc.SignUp(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// SignIn handles POST /auth/signin
func SignIn(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req credentialsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		sess, err := authSvc.SignIn(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sess)
	}
}

// SignOut handles POST /auth/signout. It always answers 204.
func SignOut(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if p, ok := principal(c); ok {
			authSvc.SignOut(c.UserContext(), p)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
