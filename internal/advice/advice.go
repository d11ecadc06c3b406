// Package advice integrates the optional external clinical-decision-support
// service. The integration only ever enriches a triage response: failures,
// timeouts, and disabled configuration all surface as absent advice.
package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds one advisory call. The advisory must answer in
// seconds, not minutes; the triage response never waits on it longer.
const DefaultTimeout = 5 * time.Second

// Request is the normalized payload sent to the advisory service.
type Request struct {
	InstanceID  string             `json:"instance_id"`
	Symptoms    []string           `json:"symptoms,omitempty"`
	Vitals      map[string]float64 `json:"vitals,omitempty"`
	Medications []string           `json:"medications,omitempty"`
	Alerts      []string           `json:"alerts,omitempty"`
}

// Response is the advisory service's answer.
type Response struct {
	Advice string `json:"advice"`
}

// Provider produces an advice string for a normalized payload. Errors mean
// "no advice available"; callers recover locally and never propagate them.
type Provider interface {
	Advise(ctx context.Context, req Request) (string, error)
}

// HTTPProvider calls an advisory endpoint over JSON POST.
type HTTPProvider struct {
	url     string
	client  *http.Client
	log     zerolog.Logger
	timeout time.Duration
}

// ProviderOption configures an HTTPProvider.
type ProviderOption func(*HTTPProvider)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) ProviderOption {
	return func(p *HTTPProvider) { p.client = c }
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) ProviderOption {
	return func(p *HTTPProvider) { p.timeout = d }
}

// NewHTTPProvider creates a provider for the given endpoint URL. The default
// client carries no client-level timeout: the per-call context deadline is
// the single bound, so a configured timeout above DefaultTimeout is honored.
func NewHTTPProvider(url string, logger zerolog.Logger, opts ...ProviderOption) *HTTPProvider {
	p := &HTTPProvider{
		url:     url,
		client:  &http.Client{},
		log:     logger,
		timeout: DefaultTimeout,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Advise posts the payload and decodes the advice string. Non-2xx responses
// and transport failures are returned as errors for the caller to swallow.
func (p *HTTPProvider) Advise(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal advice request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build advice request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", req.InstanceID)

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("advice request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain at most 1KB for the log, then discard.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		p.log.Debug().
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Dur("latency", time.Since(start)).
			Msg("advice endpoint returned non-2xx")
		return "", fmt.Errorf("advice endpoint returned %d", resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&out); err != nil {
		return "", fmt.Errorf("decode advice response: %w", err)
	}
	return out.Advice, nil
}
