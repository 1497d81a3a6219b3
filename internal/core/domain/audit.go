package domain

import "time"

// AuditEvent records one successful mutation for the audit trail. The engine
// emits these explicitly after each state change; there is no interception
// layer.
type AuditEvent struct {
	EventID    string    `json:"eventID"`
	Action     string    `json:"action"`     // e.g. CREATE_FEE_VOUCHER
	EntityType string    `json:"entityType"` // e.g. FeeVoucher
	EntityID   string    `json:"entityID"`
	ActorID    string    `json:"actorID"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
