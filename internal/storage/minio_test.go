package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"

	"alumniapi/internal/config"
)

func TestNewMinIO_Validation(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		cfg  config.MinIOConfig
		want string
	}{
		{"no endpoint", config.MinIOConfig{}, "endpoint is required"},
		{"no credentials", config.MinIOConfig{Endpoint: "minio:9000"}, "credentials are required"},
		{"no bucket", config.MinIOConfig{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "b"}, "bucket is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := NewMinIO(ctx, tt.cfg)
			assert.ErrorContains(t, err, tt.want)
			assert.Nil(t, st)
		})
	}
}

func TestMapMinioErr(t *testing.T) {
	assert.ErrorIs(t, mapMinioErr(minio.ErrorResponse{Code: "NoSuchKey"}), ErrNotFound)

	other := errors.New("access denied")
	assert.Equal(t, other, mapMinioErr(other))
}
