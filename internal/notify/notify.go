package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"alumniapi/internal/config"
)

// Notifier tells the downstream processing service that new extraction data is available.
type Notifier interface {
	Notify(ctx context.Context) error
}

// Noop is used when no downstream URL is configured.
type Noop struct{}

func (Noop) Notify(context.Context) error { return nil }

type httpNotifier struct {
	client *retryablehttp.Client
	url    string
}

// New returns a Notifier that POSTs an empty body to cfg.URL, or Noop when the URL is empty.
// cfg.RetryMax of zero sends exactly one request.
func New(cfg config.NotifierConfig) Notifier {
	if cfg.URL == "" {
		return Noop{}
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = max(cfg.RetryMax, 0)
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = time.Duration(max(cfg.TimeoutSec, 1)) * time.Second
	client.HTTPClient.Transport = otelhttp.NewTransport(client.HTTPClient.Transport)

	return &httpNotifier{client: client, url: cfg.URL}
}

func (n *httpNotifier) Notify(ctx context.Context) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.url, nil)
	if err != nil {
		return fmt.Errorf("build notify request: %w", err)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify %s: %w", n.url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("notify %s: unexpected status %d", n.url, resp.StatusCode)
	}
	return nil
}
