package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a marketplace account. Password hash never leaves the server.
type User struct {
	UserID          uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Username        string         `gorm:"column:username;not null;uniqueIndex" json:"username"`
	Email           string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash    string         `gorm:"column:password_hash;not null" json:"-"`
	FirstName       string         `gorm:"column:first_name" json:"first_name"`
	LastName        string         `gorm:"column:last_name" json:"last_name"`
	ProfileImageURL string         `gorm:"column:profile_image_url" json:"profile_image_url"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "Users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}

// PublicProfile is the denormalized view attached to bids and offers.
type PublicProfile struct {
	UserID          uuid.UUID `json:"user_id"`
	Username        string    `json:"username"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	ProfileImageURL string    `json:"profile_image_url"`
}

// Public returns the display fields safe to embed in responses.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		UserID:          u.UserID,
		Username:        u.Username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
	}
}
