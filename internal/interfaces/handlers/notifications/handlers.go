package notifications

import (
	notifsvc "bazaar-backend/internal/application/notifications"
	"bazaar-backend/internal/middleware"
	"bazaar-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *notifsvc.Service
}

// Mine GET /api/v1/notifications/my-notifications: the caller's
// notifications, newest first.
func (h *Handlers) Mine(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	notifications, err := h.Service.GetMyNotifications(c.Context(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Notifications fetched successfully", fiber.Map{"notifications": notifications}, fiber.Map{"count": len(notifications)})
}

// MarkRead PATCH /api/v1/notifications/mark-read/:notification_id.
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	notificationID, err := uuid.Parse(c.Params("notification_id"))
	if err != nil {
		return response.Error(c, "Invalid notification_id format", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.MarkRead(c.Context(), notificationID, userID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Notification marked as read", nil, nil)
}
