package users

import (
	"context"
	"strings"

	"bazaar-backend/internal/domain"
	"bazaar-backend/internal/pkg/apperrors"
	"bazaar-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service holds user operations: registration and public profile lookups
// used by the bid and offer engines for response shaping.
type Service struct {
	DB *gorm.DB
}

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if !validation.IsValidUsername(username) {
		return nil, apperrors.Rejected("Username must be 3-30 characters (letters, digits, underscores, dots)")
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if !validation.IsValidEmail(email) {
		return nil, apperrors.Rejected("Invalid email format")
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, apperrors.Rejected("Password must be at least 8 characters with a letter, a number and a special character")
	}
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first != "" && !validation.IsValidName(first) {
		return nil, apperrors.Rejected("First name contains invalid characters")
	}
	if last != "" && !validation.IsValidName(last) {
		return nil, apperrors.Rejected("Last name contains invalid characters")
	}

	var existing domain.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, apperrors.Rejected("Email already registered")
	}
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, apperrors.Rejected("Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    first,
		LastName:     last,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, apperrors.Internal("Failed to create user", err)
	}
	return u, nil
}

// GetPublicProfile resolves a user's display fields.
func (s *Service) GetPublicProfile(ctx context.Context, userID uuid.UUID) (*domain.PublicProfile, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.Internal("Failed to fetch user", err)
	}
	p := u.Public()
	return &p, nil
}
