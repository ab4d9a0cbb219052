package notifications

import (
	"context"
	"encoding/json"

	"bazaar-backend/internal/domain"
	"bazaar-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service persists in-app notifications and fans them out over Redis pub/sub.
// Rdb is optional; without it notifications are DB-only.
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// Create inserts a notification row and publishes it to the recipient's
// channel. Fire-and-forget: every failure is logged and swallowed so the
// state transition that triggered it is never blocked or rolled back.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, typ, title, message, linkURL string, relatedEntityID *uuid.UUID, data map[string]interface{}) {
	n := &domain.Notification{
		UserID:          userID,
		Type:            typ,
		Title:           title,
		Message:         message,
		LinkURL:         linkURL,
		RelatedEntityID: relatedEntityID,
	}
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			n.Data = datatypes.JSON(b)
		}
	}
	if err := s.DB.WithContext(ctx).Create(n).Error; err != nil {
		log.Error().Err(err).Str("type", typ).Str("user_id", userID.String()).Msg("Failed to create notification")
		return
	}
	if s.Rdb != nil {
		payload, _ := json.Marshal(n)
		if err := s.Rdb.Publish(ctx, "notify:user:"+userID.String(), payload).Err(); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Notification publish failed")
		}
	}
}

// GetMyNotifications returns the caller's notifications, newest first.
func (s *Service) GetMyNotifications(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	var out []domain.Notification
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, apperrors.Internal("Failed to fetch notifications", err)
	}
	return out, nil
}

// MarkRead marks one of the caller's notifications as read.
func (s *Service) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	var n domain.Notification
	if err := s.DB.WithContext(ctx).Where("notification_id = ?", notificationID).First(&n).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("Notification not found")
		}
		return apperrors.Internal("Failed to fetch notification", err)
	}
	if n.UserID != userID {
		return apperrors.Forbidden("Notification belongs to another user")
	}
	if err := s.DB.WithContext(ctx).Model(&n).Update("read", true).Error; err != nil {
		return apperrors.Internal("Failed to update notification", err)
	}
	return nil
}
