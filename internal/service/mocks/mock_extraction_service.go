package mocks

import (
	"context"

	"alumniapi/internal/model"
	"alumniapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockExtractionService struct {
	mock.Mock
}

var _ service.ExtractionService = (*MockExtractionService)(nil)

func (m *MockExtractionService) Ingest(ctx context.Context, req model.UploadRequest) (*model.IngestResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IngestResult), args.Error(1)
}
