package mocks

import (
	"context"

	"alumniapi/internal/model"
	"alumniapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockEnrollmentRepository struct {
	mock.Mock
}

var _ repository.EnrollmentRepository = (*MockEnrollmentRepository)(nil)

func (m *MockEnrollmentRepository) BulkCreate(ctx context.Context, records []model.Enrollment) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) FindByID(ctx context.Context, id string) (*model.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) List(ctx context.Context, filter repository.EnrollmentFilter, pq repository.PageQuery) (*repository.PageResult[model.Enrollment], error) {
	args := m.Called(ctx, filter, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Enrollment]), args.Error(1)
}

func (m *MockEnrollmentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
