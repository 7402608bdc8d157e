// Package backend forwards unimplemented API routes to the external backend.
package backend

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
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

const defaultTimeout = 30 * time.Second

var tracer = otel.Tracer("github.com/fineko/fineko-api/internal/infrastructure/backend")

// errServerStatus marks a 5xx answer: a breaker failure that is still
// relayed to the client as-is.
var errServerStatus = errors.New("backend answered with a server error")

// Config holds the proxy settings.
type Config struct {
	TargetURL string
	// Prefix is the local route prefix stripped before forwarding.
	Prefix  string
	Timeout time.Duration
}

// NewProxy returns an echo middleware that reverse-proxies every request to
// the backend. Transport failures and an open breaker surface as
// domain.ErrUpstream.
func NewProxy(cfg Config, log zerolog.Logger) (echo.MiddlewareFunc, error) {
	target, err := url.Parse(cfg.TargetURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", cfg.TargetURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	balancer := middleware.NewRoundRobinBalancer([]*middleware.ProxyTarget{{Name: "backend", URL: target}})

	return middleware.ProxyWithConfig(middleware.ProxyConfig{
		Balancer: balancer,
		Rewrite: map[string]string{
			cfg.Prefix + "/*": "/$1",
		},
		Transport: &breakerTransport{
			next: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
				ResponseHeaderTimeout: timeout,
				IdleConnTimeout:       90 * time.Second,
				MaxIdleConnsPerHost:   32,
			},
			cb: resilience.NewCircuitBreaker("backend", log),
		},
		ErrorHandler: func(c echo.Context, err error) error {
			log.Warn().Err(err).Str("path", c.Request().URL.Path).Msg("backend proxy failed")
			return fmt.Errorf("%w: backend", domain.ErrUpstream)
		},
	}), nil
}

type breakerTransport struct {
	next http.RoundTripper
	cb   *gobreaker.CircuitBreaker
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := tracer.Start(req.Context(), "backend.proxy", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("http.method", req.Method), attribute.String("http.path", req.URL.Path))

	start := time.Now()
	resp, err := resilience.Execute(t.cb, func() (*http.Response, error) {
		resp, err := t.next.RoundTrip(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerStatus
		}
		return resp, nil
	})

	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.UpstreamRequestDuration.WithLabelValues("backend", outcome).Observe(time.Since(start).Seconds())

	if errors.Is(err, errServerStatus) && resp != nil {
		return resp, nil
	}
	return resp, err
}
