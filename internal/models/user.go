package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// User описывает сущность пользователя платформы.
type User struct {
	ID                 uuid.UUID      `db:"id" json:"id"`
	Email              string         `db:"email" json:"email"`
	Username           string         `db:"username" json:"username"`
	PasswordHash       string         `db:"password_hash" json:"-"`
	Role               string         `db:"role" json:"role"`
	AvailableRoles     pq.StringArray `db:"available_roles" json:"available_roles"`
	Status             string         `db:"status" json:"status"`
	VerificationStatus string         `db:"verification_status" json:"verification_status"`
	Phone              *string        `db:"phone" json:"phone,omitempty"`
	CompanyName        *string        `db:"company_name" json:"company_name,omitempty"`
	LastLoginAt        *time.Time     `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

// HasRole проверяет, доступна ли пользователю указанная роль.
func (u *User) HasRole(role string) bool {
	if u.Role == role {
		return true
	}
	for _, r := range u.AvailableRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
