package service

import (
	"context"
	"database/sql"
	"errors"

	"alumniapi/internal/model"
	"alumniapi/internal/repository"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// EnrollmentQuery filters and paginates enrollment listings. Empty IDs match everything.
type EnrollmentQuery struct {
	CourseID  string
	FacultyID string
	Limit     int
	Offset    int
}

// EnrollmentListResult is the service-level DTO for paginated enrollments.
type EnrollmentListResult struct {
	Items []model.Enrollment `json:"data"`
	Total int                `json:"total"`
}

// EnrollmentService exposes persisted enrollment records.
type EnrollmentService interface {
	// List returns enrollments using limit/offset and a total count.
	List(ctx context.Context, q EnrollmentQuery) (*EnrollmentListResult, error)

	// Get returns a single enrollment by its ID.
	Get(ctx context.Context, id string) (*model.Enrollment, error)

	// Delete removes an enrollment by ID (administrative deletion).
	Delete(ctx context.Context, id string) error
}

type enrollmentService struct {
	repo repository.EnrollmentRepository
}

// NewEnrollmentService constructs a new EnrollmentService.
func NewEnrollmentService(repo repository.EnrollmentRepository) EnrollmentService {
	return &enrollmentService{repo: repo}
}

// List returns paginated enrollments without exposing repository types.
func (s *enrollmentService) List(ctx context.Context, q EnrollmentQuery) (*EnrollmentListResult, error) {
	if q.Limit <= 0 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	res, err := s.repo.List(ctx,
		repository.EnrollmentFilter{CourseID: q.CourseID, FacultyID: q.FacultyID},
		repository.PageQuery{Limit: q.Limit, Offset: q.Offset},
	)
	if err != nil {
		return nil, err
	}
	return &EnrollmentListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns an enrollment by ID.
func (s *enrollmentService) Get(ctx context.Context, id string) (*model.Enrollment, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// Delete removes an enrollment after confirming it exists.
func (s *enrollmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
