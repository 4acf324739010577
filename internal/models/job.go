package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Job описывает вакансию, размещённую работодателем.
type Job struct {
	ID                  uuid.UUID        `db:"id" json:"id"`
	EmployerID          uuid.UUID        `db:"employer_id" json:"employer_id"`
	Title               string           `db:"title" json:"title"`
	Description         string           `db:"description" json:"description"`
	Category            string           `db:"category" json:"category"`
	Location            *string          `db:"location" json:"location,omitempty"`
	SalaryType          string           `db:"salary_type" json:"salary_type"`
	SalaryAmount        *decimal.Decimal `db:"salary_amount" json:"salary_amount,omitempty"`
	RequiredPeople      int              `db:"required_people" json:"required_people"`
	AcceptedPeople      int              `db:"accepted_people" json:"accepted_people"`
	Status              string           `db:"status" json:"status"`
	Views               int              `db:"views" json:"views"`
	ScheduledStartTime  *time.Time       `db:"scheduled_start_time" json:"scheduled_start_time,omitempty"`
	ScheduledEndTime    *time.Time       `db:"scheduled_end_time" json:"scheduled_end_time,omitempty"`
	ApplicationDeadline *time.Time       `db:"application_deadline" json:"application_deadline,omitempty"`
	RejectionReason     *string          `db:"rejection_reason" json:"rejection_reason,omitempty"`
	CreatedAt           time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time        `db:"updated_at" json:"updated_at"`
}

// HasCapacity сообщает, остались ли на вакансии свободные места.
func (j *Job) HasCapacity() bool {
	return j.AcceptedPeople < j.RequiredPeople
}

// JobApplication представляет отклик фрилансера на вакансию.
type JobApplication struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	JobID           uuid.UUID  `db:"job_id" json:"job_id"`
	FreelancerID    uuid.UUID  `db:"freelancer_id" json:"freelancer_id"`
	CoverLetter     *string    `db:"cover_letter" json:"cover_letter,omitempty"`
	Status          string     `db:"status" json:"status"`
	RejectionReason *string    `db:"rejection_reason" json:"rejection_reason,omitempty"`
	ViewedAt        *time.Time `db:"viewed_at" json:"viewed_at,omitempty"`
	RespondedAt     *time.Time `db:"responded_at" json:"responded_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}
