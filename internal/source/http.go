package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	apperrors "github.com/marquee-led/marquee/internal/errors"
	"github.com/marquee-led/marquee/internal/metrics"
	"github.com/marquee-led/marquee/internal/parser"
)

const maxBodyBytes = 1 << 20 // payloads beyond 1MiB are not display material

// HTTP fetches text from a JSON/text endpoint through a registered parser.
// The underlying http.Client reuses connections across fetches; callers must
// not rely on connection state surviving a failure.
type HTTP struct {
	url     string
	headers map[string]string
	parse   parser.Func
	opts    parser.Options
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewHTTP creates a networked source for url using the given parser function.
// Repeated transport failures open a circuit breaker so fetch attempts
// short-circuit without hitting the network until the cool-down passes.
func NewHTTP(url string, headers map[string]string, parse parser.Func, opts parser.Options) *HTTP {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "http_source",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(_ string, _, to gobreaker.State) {
			metrics.BreakerState.Set(breakerStateValue(to))
		},
	})

	return &HTTP{
		url:     url,
		headers: headers,
		parse:   parse,
		opts:    opts,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		breaker: breaker,
	}
}

func (h *HTTP) Fetch(ctx context.Context) Result {
	payload, err := h.breaker.Execute(func() (any, error) {
		return h.get(ctx)
	})
	if err != nil {
		return TransportFailure(err)
	}

	text, err := h.parse(payload.([]byte), h.opts)
	if err != nil {
		return ParseFailure(apperrors.ParseError("payload did not match configured shape", err).WithContext("url", h.url))
	}
	if strings.TrimSpace(text) == "" {
		return Empty()
	}
	return Success(text)
}

func (h *HTTP) Name() string {
	return "http"
}

func (h *HTTP) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range h.headers {
		req.Header.Set(k, v)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", h.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("fetch %s: unexpected status %d", h.url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
