package service

import (
	"context"
	"fmt"
)

const (
	hookCleanup = "cleanup"
	hookNotify  = "notify"
)

// afterCommit schedules the post-commit hooks. They outlive the request and never change the
// ingest outcome; failures are logged and counted.
func (s *extractionService) afterCommit(ctx context.Context, key string, notify bool) {
	hookCtx := context.WithoutCancel(ctx)

	s.runner.Go(hookCtx, func(ctx context.Context) error {
		return s.runHook(ctx, hookCleanup, func(ctx context.Context) error {
			return s.store.Delete(ctx, key)
		})
	})

	if notify {
		s.runner.Go(hookCtx, func(ctx context.Context) error {
			return s.runHook(ctx, hookNotify, s.notifier.Notify)
		})
	}
}

func (s *extractionService) runHook(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		s.metrics.observeHookFailure(name)
		s.log.WarnContext(ctx, "post-commit hook failed", "hook", name, "error", err)
		return fmt.Errorf("%s hook: %w", name, err)
	}
	return nil
}

// inlineRunner runs hooks on the calling goroutine.
type inlineRunner struct{}

func (inlineRunner) Go(ctx context.Context, f func(ctx context.Context) error) {
	_ = f(ctx)
}
