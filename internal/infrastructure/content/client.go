// Package content calls the AI help service.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/infrastructure/resilience"
	"github.com/fineko/fineko-api/internal/pkg/metrics"
)

const (
	generatePath    = "/v1/content/generate"
	defaultTimeout  = 20 * time.Second
	maxResponseBody = 1 << 20
)

var tracer = otel.Tracer("github.com/fineko/fineko-api/internal/infrastructure/content")

// Client is an HTTP client for the content generation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	log        zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cb:         resilience.NewCircuitBreaker("content", log),
		log:        log,
	}
}

// Generate asks for page help or an audit plan. Every failure, including an
// unusable response, wraps domain.ErrUpstream.
func (c *Client) Generate(ctx context.Context, req domain.ContentRequest) (*domain.ContentResponse, error) {
	ctx, span := tracer.Start(ctx, "content.generate", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("content.page_id", req.PageID), attribute.Bool("content.audit", req.Audit != nil))

	start := time.Now()
	resp, err := resilience.Execute(c.cb, func() (*domain.ContentResponse, error) {
		return c.do(ctx, req)
	})
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate failed")
	}
	metrics.UpstreamRequestDuration.WithLabelValues("content", outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		c.log.Warn().Err(err).Str("page_id", req.PageID).Msg("content generation failed")
		return nil, fmt.Errorf("%w: content: %v", domain.ErrUpstream, err)
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, req domain.ContentRequest) (*domain.ContentResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call content service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content service returned %d", resp.StatusCode)
	}

	var out domain.ContentResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Empty() {
		return nil, fmt.Errorf("content service returned an empty response")
	}
	return &out, nil
}
