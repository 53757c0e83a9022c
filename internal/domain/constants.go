package domain

const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

const (
	DonationStatusPending   = "pending"
	DonationStatusCompleted = "completed"
	DonationStatusFailed    = "failed"
)

const PaymentMethodMpesa = "mpesa"

// Setting types; each type groups the keys an admin can override.
const (
	SettingTypeGeneral = "general"
	SettingTypeMpesa   = "mpesa"
	SettingTypeEmail   = "email"
)

// Payment event names for the append-only audit trail.
const (
	EventSTKInitiated      = "stk_initiated"
	EventCallbackCompleted = "callback_completed"
	EventCallbackFailed    = "callback_failed"
	EventCallbackOrphaned  = "callback_orphaned"
	EventCallbackIgnored   = "callback_ignored"
	EventManualOverride    = "manual_override"
)

const (
	VisitationStatusPlanned   = "planned"
	VisitationStatusCompleted = "completed"
	VisitationStatusCancelled = "cancelled"
)
