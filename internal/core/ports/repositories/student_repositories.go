package repositories

import (
	"context"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
)

// StudentReader exposes the student and enrollment lookups the billing
// engine needs. Student records are owned by the admissions system; this
// engine only reads them.
type StudentReader interface {
	FindStudentByID(ctx context.Context, studentID string) (*domain.Student, error)

	// GetActiveEnrollmentClassID returns the class the student is actively
	// enrolled in, or apperrors.ErrNotFound when there is no active
	// enrollment.
	GetActiveEnrollmentClassID(ctx context.Context, studentID string) (string, error)

	// ListActiveStudentsByClass retrieves the actively enrolled students of
	// a class, for cohort voucher generation.
	ListActiveStudentsByClass(ctx context.Context, classID string) ([]domain.Student, error)

	// ListAllActiveStudents retrieves every actively enrolled student
	// together with their class, for school-wide sweeps.
	ListAllActiveStudents(ctx context.Context) (map[string][]domain.Student, error)
}
