package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumniapi/internal/config"
)

func TestNew_NoURL(t *testing.T) {
	n := New(config.NotifierConfig{})
	assert.IsType(t, Noop{}, n)
	assert.NoError(t, n.Notify(context.Background()))
}

func TestHTTPNotifier_Notify(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := New(config.NotifierConfig{URL: srv.URL, TimeoutSec: 1})
	require.NoError(t, n.Notify(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPNotifier_FailureIsNotRetriedByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := New(config.NotifierConfig{URL: srv.URL, TimeoutSec: 1})
	err := n.Notify(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPNotifier_RetriesWhenConfigured(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(config.NotifierConfig{URL: srv.URL, TimeoutSec: 1, RetryMax: 2})
	require.NoError(t, n.Notify(context.Background()))
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPNotifier_ClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	err := New(config.NotifierConfig{URL: srv.URL, TimeoutSec: 1}).Notify(context.Background())
	assert.ErrorContains(t, err, "unexpected status 404")
}
