package user

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of roles the platform knows about. Anything else is
// rejected at the boundary instead of being compared as a free-form string.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
	RoleAlumni  Role = "alumni"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidRole  = errors.New("role must be admin, student or alumni")
	ErrInvalidEmail = errors.New("invalid email format")

	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ParseRole validates a raw role claim. An empty value falls back to the
// student role, matching the default every new account gets.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RoleStudent, RoleAlumni:
		return Role(raw), nil
	case "":
		return RoleStudent, nil
	default:
		return "", ErrInvalidRole
	}
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) Validate() error {
	if !emailRegex.MatchString(u.Email) {
		return ErrInvalidEmail
	}
	switch u.Role {
	case RoleAdmin, RoleStudent, RoleAlumni:
	default:
		return ErrInvalidRole
	}
	return nil
}

type Repository interface {
	Save(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, error)
}
