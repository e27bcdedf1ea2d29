package mocks

import (
	"context"

	"alumniapi/internal/model"
	"alumniapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockEnrollmentService struct {
	mock.Mock
}

var _ service.EnrollmentService = (*MockEnrollmentService)(nil)

func (m *MockEnrollmentService) List(ctx context.Context, q service.EnrollmentQuery) (*service.EnrollmentListResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EnrollmentListResult), args.Error(1)
}

func (m *MockEnrollmentService) Get(ctx context.Context, id string) (*model.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Enrollment), args.Error(1)
}

func (m *MockEnrollmentService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
