package dto

import (
	"time"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
)

// AuditEventResponse defines the data returned for one audit event.
type AuditEventResponse struct {
	EventID    string    `json:"eventID"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityID"`
	ActorID    string    `json:"actorID"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToAuditEventResponse converts a domain.AuditEvent to AuditEventResponse DTO
func ToAuditEventResponse(e *domain.AuditEvent) AuditEventResponse {
	return AuditEventResponse{
		EventID:    e.EventID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		ActorID:    e.ActorID,
		Details:    e.Details,
		CreatedAt:  e.CreatedAt,
	}
}

// ListAuditEventsResponse wraps an entity's audit trail, newest first.
type ListAuditEventsResponse struct {
	Events []AuditEventResponse `json:"events"`
}

// ToListAuditEventsResponse converts a slice of domain.AuditEvent to the list DTO
func ToListAuditEventsResponse(events []domain.AuditEvent) ListAuditEventsResponse {
	res := ListAuditEventsResponse{Events: make([]AuditEventResponse, len(events))}
	for i := range events {
		res.Events[i] = ToAuditEventResponse(&events[i])
	}
	return res
}
