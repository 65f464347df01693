package domain

import (
	"context"
	"errors"
	"net/url"
	"time"

	"gorm.io/gorm"
)

// Role types
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("Email already registered.")
)

// User represents the account entity (domain model)
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"not null"` // Never expose password in JSON
	Avatar    string         `json:"avatar"`
	Role      string         `json:"role" gorm:"not null;default:'customer'"`
	IsActive  bool           `json:"-" gorm:"default:true"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"` // Soft delete
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// IsAdmin checks if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AvatarURL returns the generated avatar for seed.
func AvatarURL(seed string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(seed)
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

// DemoPassword is the password of the seeded demo accounts.
const DemoPassword = "password"

// SeedUsers returns the demo accounts with plain text passwords.
func SeedUsers() []User {
	return []User{
		{Name: "Demo User", Email: "user@lumina.com", Password: DemoPassword, Avatar: AvatarURL("Felix"), Role: RoleCustomer, IsActive: true},
		{Name: "Admin User", Email: "admin@lumina.com", Password: DemoPassword, Avatar: AvatarURL("Admin"), Role: RoleAdmin, IsActive: true},
	}
}
