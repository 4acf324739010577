package models

// JobStatus константы статусов вакансий
const (
	JobStatusPendingReview = "pending_review"
	JobStatusRejected      = "rejected"
	JobStatusActive        = "active"
	JobStatusFilled        = "filled"
	JobStatusInProgress    = "in_progress"
	JobStatusCompleted     = "completed"
	JobStatusCancelled     = "cancelled"
	JobStatusExpired       = "expired"
)

// SalaryType константы типов оплаты вакансии
const (
	SalaryTypeHourly     = "hourly"
	SalaryTypeDaily      = "daily"
	SalaryTypeWeekly     = "weekly"
	SalaryTypeMonthly    = "monthly"
	SalaryTypeFixed      = "fixed"
	SalaryTypeNegotiable = "negotiable"
)

// ApplicationStatus константы статусов откликов на вакансии
const (
	ApplicationStatusPending              = "pending"
	ApplicationStatusViewed               = "viewed"
	ApplicationStatusAccepted             = "accepted"
	ApplicationStatusRejected             = "rejected"
	ApplicationStatusCancelledByFreelancer = "cancelled_by_freelancer"
)

// OrderStatus константы статусов заказов
const (
	OrderStatusPendingStart        = "pending_start"
	OrderStatusInProgress          = "in_progress"
	OrderStatusPendingConfirmation = "pending_confirmation"
	OrderStatusCompleted           = "completed"
	OrderStatusCancelled           = "cancelled"
	OrderStatusDisputed            = "disputed"
)

// ConfirmationStatus константы статусов подтверждения сторон заказа
const (
	ConfirmationStatusPending   = "pending"
	ConfirmationStatusConfirmed = "confirmed"
	ConfirmationStatusDisputed  = "disputed"
)

// CancellationParty константы инициаторов отмены заказа
const (
	CancellationPartyFreelancer = "freelancer"
	CancellationPartyEmployer   = "employer"
	CancellationPartyPlatform   = "platform"
)

// TransactionType константы типов операций по кошельку
const (
	TransactionTypeDeposit     = "deposit"
	TransactionTypeWithdrawal  = "withdrawal"
	TransactionTypeIncome      = "income"
	TransactionTypePayment     = "payment"
	TransactionTypeRefund      = "refund"
	TransactionTypePlatformFee = "platform_fee"
	TransactionTypeAdjustment  = "adjustment"
)

// PaymentStatus константы статусов платежей
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// WithdrawalStatus константы статусов заявок на вывод средств
const (
	WithdrawalStatusPending   = "pending"
	WithdrawalStatusRejected  = "rejected"
	WithdrawalStatusCompleted = "completed"
)

// DisputeStatus константы статусов споров
const (
	DisputeStatusOpen      = "open"
	DisputeStatusInReview  = "in_review"
	DisputeStatusResolved  = "resolved"
	DisputeStatusCancelled = "cancelled"
)

// UserRole константы ролей пользователей
const (
	UserRoleFreelancer = "freelancer"
	UserRoleEmployer   = "employer"
	UserRoleAdmin      = "admin"
)

// UserStatus константы статусов учётных записей
const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
	UserStatusDeleted = "deleted"
)

// VerificationStatus константы статусов верификации пользователя
const (
	VerificationStatusNone     = "none"
	VerificationStatusPending  = "pending"
	VerificationStatusApproved = "approved"
	VerificationStatusRejected = "rejected"
)

// NotificationType константы типов уведомлений
const (
	NotificationTypeJobApproved          = "job_approved"
	NotificationTypeJobRejected          = "job_rejected"
	NotificationTypeApplicationReceived  = "application_received"
	NotificationTypeApplicationAccepted  = "application_accepted"
	NotificationTypeApplicationRejected  = "application_rejected"
	NotificationTypeApplicationCancelled = "application_cancelled"
	NotificationTypeOrderStarted         = "order_started"
	NotificationTypeOrderCompleted       = "order_completed"
	NotificationTypeOrderConfirmed       = "order_confirmed"
	NotificationTypeOrderCancelled       = "order_cancelled"
	NotificationTypeDisputeOpened        = "dispute_opened"
	NotificationTypeDisputeResolved      = "dispute_resolved"
	NotificationTypePaymentReceived      = "payment_received"
	NotificationTypeWithdrawalProcessed  = "withdrawal_processed"
)

// ValidJobStatuses список валидных статусов вакансий
var ValidJobStatuses = map[string]struct{}{
	JobStatusPendingReview: {},
	JobStatusRejected:      {},
	JobStatusActive:        {},
	JobStatusFilled:        {},
	JobStatusInProgress:    {},
	JobStatusCompleted:     {},
	JobStatusCancelled:     {},
	JobStatusExpired:       {},
}

// ValidSalaryTypes список валидных типов оплаты
var ValidSalaryTypes = map[string]struct{}{
	SalaryTypeHourly:     {},
	SalaryTypeDaily:      {},
	SalaryTypeWeekly:     {},
	SalaryTypeMonthly:    {},
	SalaryTypeFixed:      {},
	SalaryTypeNegotiable: {},
}

// ValidApplicationStatuses список валидных статусов откликов
var ValidApplicationStatuses = map[string]struct{}{
	ApplicationStatusPending:               {},
	ApplicationStatusViewed:                {},
	ApplicationStatusAccepted:              {},
	ApplicationStatusRejected:              {},
	ApplicationStatusCancelledByFreelancer: {},
}

// ValidOrderStatuses список валидных статусов заказов
var ValidOrderStatuses = map[string]struct{}{
	OrderStatusPendingStart:        {},
	OrderStatusInProgress:          {},
	OrderStatusPendingConfirmation: {},
	OrderStatusCompleted:           {},
	OrderStatusCancelled:           {},
	OrderStatusDisputed:            {},
}

// ValidConfirmationStatuses список валидных статусов подтверждения
var ValidConfirmationStatuses = map[string]struct{}{
	ConfirmationStatusPending:   {},
	ConfirmationStatusConfirmed: {},
	ConfirmationStatusDisputed:  {},
}

// ValidCancellationParties список валидных инициаторов отмены
var ValidCancellationParties = map[string]struct{}{
	CancellationPartyFreelancer: {},
	CancellationPartyEmployer:   {},
	CancellationPartyPlatform:   {},
}

// ValidTransactionTypes список валидных типов операций
var ValidTransactionTypes = map[string]struct{}{
	TransactionTypeDeposit:     {},
	TransactionTypeWithdrawal:  {},
	TransactionTypeIncome:      {},
	TransactionTypePayment:     {},
	TransactionTypeRefund:      {},
	TransactionTypePlatformFee: {},
	TransactionTypeAdjustment:  {},
}

// ValidWithdrawalStatuses список валидных статусов заявок на вывод
var ValidWithdrawalStatuses = map[string]struct{}{
	WithdrawalStatusPending:   {},
	WithdrawalStatusRejected:  {},
	WithdrawalStatusCompleted: {},
}

// ValidDisputeStatuses список валидных статусов споров
var ValidDisputeStatuses = map[string]struct{}{
	DisputeStatusOpen:      {},
	DisputeStatusInReview:  {},
	DisputeStatusResolved:  {},
	DisputeStatusCancelled: {},
}

// ValidUserRoles список валидных ролей пользователей
var ValidUserRoles = map[string]struct{}{
	UserRoleFreelancer: {},
	UserRoleEmployer:   {},
	UserRoleAdmin:      {},
}
