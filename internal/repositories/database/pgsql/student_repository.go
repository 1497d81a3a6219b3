package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolworks/fee_billing_app/internal/apperrors"
	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	portsrepo "github.com/schoolworks/fee_billing_app/internal/core/ports/repositories"
)

type PgxStudentRepository struct {
	BaseRepository
}

// newPgxStudentRepository creates a read-only repository over the student and
// enrollment tables owned by the student management service.
func newPgxStudentRepository(pool *pgxpool.Pool) portsrepo.StudentReader {
	return &PgxStudentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxStudentRepository implements portsrepo.StudentReader
var _ portsrepo.StudentReader = (*PgxStudentRepository)(nil)

const studentColumns = `student_id, registration_number, full_name, is_active`

func scanStudent(row pgx.Row) (domain.Student, error) {
	var s domain.Student
	err := row.Scan(
		&s.StudentID,
		&s.RegistrationNumber,
		&s.FullName,
		&s.IsActive,
	)
	return s, err
}

func (r *PgxStudentRepository) FindStudentByID(ctx context.Context, studentID string) (*domain.Student, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT `+studentColumns+`
		FROM students
		WHERE student_id = $1;
	`, studentID)
	s, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find student by ID %s: %w", studentID, err)
	}
	return &s, nil
}

// GetActiveEnrollmentClassID resolves the class the student is currently
// enrolled in. Returns apperrors.ErrNotFound when the student has no active
// enrollment.
func (r *PgxStudentRepository) GetActiveEnrollmentClassID(ctx context.Context, studentID string) (string, error) {
	var classID string
	err := r.Pool.QueryRow(ctx, `
		SELECT class_id
		FROM student_enrollments
		WHERE student_id = $1 AND is_active = TRUE
		ORDER BY enrolled_at DESC
		LIMIT 1;
	`, studentID).Scan(&classID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to resolve active enrollment for student %s: %w", studentID, err)
	}
	return classID, nil
}

func (r *PgxStudentRepository) ListActiveStudentsByClass(ctx context.Context, classID string) ([]domain.Student, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT s.student_id, s.registration_number, s.full_name, s.is_active
		FROM students s
		JOIN student_enrollments e ON e.student_id = s.student_id
		WHERE e.class_id = $1 AND e.is_active = TRUE AND s.is_active = TRUE
		ORDER BY s.registration_number;
	`, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active students for class %s: %w", classID, err)
	}
	defer rows.Close()

	students := []domain.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, nil
}

// ListAllActiveStudents returns every actively enrolled student grouped by
// the class of their active enrollment.
func (r *PgxStudentRepository) ListAllActiveStudents(ctx context.Context) (map[string][]domain.Student, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT e.class_id, s.student_id, s.registration_number, s.full_name, s.is_active
		FROM students s
		JOIN student_enrollments e ON e.student_id = s.student_id
		WHERE e.is_active = TRUE AND s.is_active = TRUE
		ORDER BY e.class_id, s.registration_number;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active students: %w", err)
	}
	defer rows.Close()

	byClass := map[string][]domain.Student{}
	for rows.Next() {
		var classID string
		var s domain.Student
		if err := rows.Scan(
			&classID,
			&s.StudentID,
			&s.RegistrationNumber,
			&s.FullName,
			&s.IsActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		byClass[classID] = append(byClass[classID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	return byClass, nil
}
