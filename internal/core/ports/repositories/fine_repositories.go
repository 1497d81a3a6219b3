package repositories

import (
	"context"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
)

// FineTierReader defines read operations for fine escalation tiers
type FineTierReader interface {
	// FindFineTierByID retrieves a tier by its unique identifier.
	FindFineTierByID(ctx context.Context, fineID string) (*domain.FineTier, error)

	// ListFineTiersByClass retrieves a class's active tiers ordered by
	// ascending days-after-due (the escalation ladder).
	ListFineTiersByClass(ctx context.Context, classID string) ([]domain.FineTier, error)

	// FindApplicableTiers retrieves the class's active tiers whose threshold
	// is <= daysOverdue, ordered by descending days-after-due. The first
	// element is the tier in effect.
	FindApplicableTiers(ctx context.Context, classID string, daysOverdue int) ([]domain.FineTier, error)
}

// FineTierWriter defines write operations for fine escalation tiers
type FineTierWriter interface {
	// SaveFineTier inserts a new tier. A unique-constraint hit on
	// (class, days-after-due) maps to apperrors.ErrDuplicate.
	SaveFineTier(ctx context.Context, tier domain.FineTier) error

	// UpdateFineTier persists mutable fields (type, value, active flag).
	UpdateFineTier(ctx context.Context, tier domain.FineTier) error
}

// FineTierRepositoryFacade combines all fine-tier repository interfaces
type FineTierRepositoryFacade interface {
	FineTierReader
	FineTierWriter
}
