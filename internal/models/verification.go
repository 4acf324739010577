package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationRecord описывает заявку пользователя на верификацию личности.
type VerificationRecord struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	DocumentType string     `db:"document_type" json:"document_type"`
	DocumentPath string     `db:"document_path" json:"-"`
	Status       string     `db:"status" json:"status"`
	Comment      *string    `db:"comment" json:"comment,omitempty"`
	ReviewedBy   *uuid.UUID `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}
