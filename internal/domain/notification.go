package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification types emitted by the bid and offer engines.
const (
	NotificationOfferReceived  = "offer_received"
	NotificationOfferAccepted  = "offer_accepted"
	NotificationOfferDeclined  = "offer_declined"
	NotificationOfferCountered = "offer_countered"
	NotificationOutbid         = "outbid"
)

// Notification is an in-app notification row. Delivery is fire-and-forget;
// the state transition that produced it never waits on or rolls back for it.
type Notification struct {
	NotificationID  uuid.UUID      `gorm:"column:notification_id;type:uuid;primaryKey" json:"notification_id"`
	UserID          uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Type            string         `gorm:"column:type;type:varchar(40);not null" json:"type"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	Message         string         `gorm:"column:message" json:"message"`
	LinkURL         string         `gorm:"column:link_url" json:"link_url"`
	RelatedEntityID *uuid.UUID     `gorm:"column:related_entity_id;type:uuid" json:"related_entity_id"`
	Data            datatypes.JSON `gorm:"column:data" json:"data"`
	Read            bool           `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (Notification) TableName() string {
	return "Notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	return nil
}
