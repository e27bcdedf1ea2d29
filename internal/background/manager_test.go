package background

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumniapi/internal/logger"
)

func TestManager_RunsAndCollectsErrors(t *testing.T) {
	m := NewManager(2, logger.New(&bytes.Buffer{}, time.UTC))

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		m.Go(context.Background(), func(context.Context) error {
			ran.Add(1)
			return nil
		})
	}
	m.Go(context.Background(), func(context.Context) error {
		return errors.New("notify failed")
	})

	err := m.Wait()
	assert.Equal(t, int32(5), ran.Load())
	assert.ErrorContains(t, err, "1 background task(s) failed")
	assert.ErrorContains(t, err, "notify failed")
}

func TestManager_FailuresAreCountedNotRetained(t *testing.T) {
	m := NewManager(4, logger.New(&bytes.Buffer{}, time.UTC))

	for i := 0; i < 1000; i++ {
		m.Go(context.Background(), func(context.Context) error {
			return errors.New("downstream 503")
		})
	}

	err := m.Wait()
	assert.ErrorContains(t, err, "1000 background task(s) failed")
	assert.ErrorContains(t, err, "downstream 503")
	assert.Equal(t, 1000, m.failed)
}

func TestManager_GoDoesNotBlockWhenSaturated(t *testing.T) {
	m := NewManager(1, logger.New(&bytes.Buffer{}, time.UTC))

	release := make(chan struct{})
	started := make(chan struct{})
	m.Go(context.Background(), func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started

	var ran atomic.Bool
	scheduled := make(chan struct{})
	go func() {
		m.Go(context.Background(), func(context.Context) error {
			ran.Store(true)
			return nil
		})
		close(scheduled)
	}()

	select {
	case <-scheduled:
	case <-time.After(time.Second):
		t.Fatal("Go blocked while every slot was busy")
	}
	assert.False(t, ran.Load())

	close(release)
	require.NoError(t, m.Wait())
	assert.True(t, ran.Load())
}

func TestManager_LimitsConcurrency(t *testing.T) {
	m := NewManager(1, logger.New(&bytes.Buffer{}, time.UTC))

	var inFlight, peak atomic.Int32
	for i := 0; i < 4; i++ {
		m.Go(context.Background(), func(context.Context) error {
			n := inFlight.Add(1)
			if n > peak.Load() {
				peak.Store(n)
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return nil
		})
	}

	assert.NoError(t, m.Wait())
	assert.Equal(t, int32(1), peak.Load())
}

func TestManager_RecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(1, logger.New(&buf, time.UTC))

	m.Go(context.Background(), func(context.Context) error {
		panic("boom")
	})

	assert.NoError(t, m.Wait())
	assert.Contains(t, buf.String(), "panic in background task")

	// the slot was released
	done := make(chan struct{})
	m.Go(context.Background(), func(context.Context) error {
		close(done)
		return nil
	})
	<-done
	assert.NoError(t, m.Wait())
}

func TestManager_CanceledBeforeStart(t *testing.T) {
	m := NewManager(1, logger.New(&bytes.Buffer{}, time.UTC))

	release := make(chan struct{})
	m.Go(context.Background(), func(context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	m.Go(ctx, func(context.Context) error {
		ran.Store(true)
		return nil
	})

	close(release)
	assert.NoError(t, m.Wait())
	assert.False(t, ran.Load())
}

func TestNewManager_DefaultLimit(t *testing.T) {
	m := NewManager(0, nil)
	assert.Equal(t, DefaultMaxWorkers, cap(m.sema))
}
