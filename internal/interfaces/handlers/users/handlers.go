package users

import (
	usersvc "bazaar-backend/internal/application/users"
	"bazaar-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *usersvc.Service
}

// Register POST /api/v1/users/register: public registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req usersvc.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	user, err := h.Service.Register(c.Context(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "User registered successfully", fiber.Map{"user": user.Public()}, nil)
}

// ViewProfile GET /api/v1/users/profile/:user_id: public display fields.
func (h *Handlers) ViewProfile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.Error(c, "Invalid user_id format", fiber.StatusBadRequest, nil)
	}
	profile, err := h.Service.GetPublicProfile(c.Context(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile fetched successfully", profile, nil)
}
