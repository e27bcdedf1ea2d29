package repository

import (
	"context"

	"alumniapi/internal/model"
)

// EnrollmentRepository defines data access for enrollment records using SQL queries only.
// No business logic here, strictly persistence operations.
type EnrollmentRepository interface {
	// BulkCreate inserts every record as one unit: either all rows are written or none are.
	BulkCreate(ctx context.Context, records []model.Enrollment) error

	// FindByID returns an enrollment by its ID.
	FindByID(ctx context.Context, id string) (*model.Enrollment, error)

	// List returns a filtered, paginated list of enrollments and the total matching rows.
	List(ctx context.Context, filter EnrollmentFilter, pq PageQuery) (*PageResult[model.Enrollment], error)

	// Delete removes an enrollment by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}

// EnrollmentFilter narrows List results. Empty fields match everything.
type EnrollmentFilter struct {
	CourseID  string
	FacultyID string
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
