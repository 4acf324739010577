package dto

import "github.com/shopspring/decimal"

// RegisterRequest represents the request to register a new account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginRequest represents the request to authenticate
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request to rotate a token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// SwitchRoleRequest represents the request to change the active role
type SwitchRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// CreateJobRequest represents the request to publish a job
type CreateJobRequest struct {
	Title               string           `json:"title" binding:"required"`
	Description         string           `json:"description" binding:"required"`
	Category            string           `json:"category" binding:"required"`
	Location            string           `json:"location"`
	SalaryType          string           `json:"salary_type" binding:"required"`
	SalaryAmount        *decimal.Decimal `json:"salary_amount"`
	RequiredPeople      int              `json:"required_people"`
	ScheduledStart      string           `json:"scheduled_start" binding:"required"`
	ScheduledEnd        string           `json:"scheduled_end" binding:"required"`
	ApplicationDeadline *string          `json:"application_deadline"`
}

// UpdateJobRequest represents the request to edit an unstarted job
type UpdateJobRequest struct {
	Title               string           `json:"title" binding:"required"`
	Description         string           `json:"description" binding:"required"`
	Category            string           `json:"category" binding:"required"`
	Location            string           `json:"location"`
	SalaryType          string           `json:"salary_type" binding:"required"`
	SalaryAmount        *decimal.Decimal `json:"salary_amount"`
	RequiredPeople      int              `json:"required_people"`
	ScheduledStart      string           `json:"scheduled_start" binding:"required"`
	ScheduledEnd        string           `json:"scheduled_end" binding:"required"`
	ApplicationDeadline *string          `json:"application_deadline"`
}

// ModerateJobRequest represents the moderation verdict for a job
type ModerateJobRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

// ApplyRequest represents the request to apply to a job
type ApplyRequest struct {
	CoverLetter *string `json:"cover_letter"`
}

// RejectApplicationRequest represents the employer's rejection of an application
type RejectApplicationRequest struct {
	Reason string `json:"reason"`
}

// CancelApplicationRequest represents the request to withdraw an application
type CancelApplicationRequest struct {
	Reason string `json:"reason"`
}

// OrderActionRequest represents a state-changing action on an order
type OrderActionRequest struct {
	Action    string `json:"action" binding:"required"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason"`
}

// DepositRequest represents the request to top up the wallet
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// WithdrawalRequestBody represents the request to withdraw funds
type WithdrawalRequestBody struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PayoutDetails string          `json:"payout_details" binding:"required"`
}

// ProcessWithdrawalRequest represents the admin verdict on a withdrawal
type ProcessWithdrawalRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

// OpenDisputeRequest represents the request to open a dispute on an order
type OpenDisputeRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
}

// ResolveDisputeRequest represents the admin resolution of a dispute
type ResolveDisputeRequest struct {
	Resolution string `json:"resolution" binding:"required"`
}

// DisputeMessageRequest represents a message inside a dispute thread
type DisputeMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// ReviewVerificationRequest represents the admin verdict on a verification
type ReviewVerificationRequest struct {
	Approve bool   `json:"approve"`
	Comment string `json:"comment"`
}
