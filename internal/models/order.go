package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order описывает рабочий заказ, созданный при принятии отклика.
// Денежные поля хранятся как NUMERIC и читаются в decimal.Decimal,
// чтобы расчёт комиссии не терял точность.
type Order struct {
	ID                       uuid.UUID        `db:"id" json:"id"`
	JobID                    uuid.UUID        `db:"job_id" json:"job_id"`
	ApplicationID            uuid.UUID        `db:"application_id" json:"application_id"`
	EmployerID               uuid.UUID        `db:"employer_id" json:"employer_id"`
	FreelancerID             uuid.UUID        `db:"freelancer_id" json:"freelancer_id"`
	Status                   string           `db:"status" json:"status"`
	Amount                   decimal.Decimal  `db:"amount" json:"amount"`
	PlatformFee              decimal.Decimal  `db:"platform_fee" json:"platform_fee"`
	FreelancerIncome         decimal.Decimal  `db:"freelancer_income" json:"freelancer_income"`
	ScheduledStartTime       *time.Time       `db:"scheduled_start_time" json:"scheduled_start_time,omitempty"`
	ScheduledEndTime         *time.Time       `db:"scheduled_end_time" json:"scheduled_end_time,omitempty"`
	StartTimeActual          *time.Time       `db:"start_time_actual" json:"start_time_actual,omitempty"`
	EndTimeActual            *time.Time       `db:"end_time_actual" json:"end_time_actual,omitempty"`
	ActualDurationHours      *decimal.Decimal `db:"actual_duration_hours" json:"actual_duration_hours,omitempty"`
	FreelancerConfirmation   string           `db:"freelancer_confirmation" json:"freelancer_confirmation"`
	EmployerConfirmation     string           `db:"employer_confirmation" json:"employer_confirmation"`
	ConfirmationDeadline     *time.Time       `db:"confirmation_deadline" json:"confirmation_deadline,omitempty"`
	CancellationReason       *string          `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CancelledBy              *string          `db:"cancelled_by" json:"cancelled_by,omitempty"`
	CompletedAt              *time.Time       `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt                time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time        `db:"updated_at" json:"updated_at"`
}

// IsParty проверяет, является ли пользователь стороной заказа.
func (o *Order) IsParty(userID uuid.UUID) bool {
	return o.EmployerID == userID || o.FreelancerID == userID
}
