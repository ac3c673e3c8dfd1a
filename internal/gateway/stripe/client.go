package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/merchantkit/payment-stripe/internal/domain/errors"
	"github.com/merchantkit/payment-stripe/internal/infrastructure/config"
	"github.com/merchantkit/payment-stripe/internal/infrastructure/observability"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CardParams are the raw card fields exchanged for a single-use token.
// They are never logged and never persisted.
type CardParams struct {
	Number   string
	ExpMonth int
	ExpYear  int
	CVC      string
	Name     string
}

// ChargeParams describe one charge against a previously created token.
type ChargeParams struct {
	TokenID     string
	AmountCents int64
	Currency    string
	Description string
	Capture     bool
}

// Charge is the provider's record of a monetary transaction. It is folded
// into the payment result and never stored locally.
type Charge struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount"`
	Currency    string `json:"currency"`
	Captured    bool   `json:"captured"`
	Description string `json:"description"`
}

// Client wraps the provider's token-creation and charge-creation endpoints.
// Both calls are synchronous, authenticated with the per-store API key, and
// propagate provider errors without retrying.
type Client interface {
	CreateToken(ctx context.Context, apiKey string, card CardParams) (string, error)
	CreateCharge(ctx context.Context, apiKey string, params ChargeParams) (*Charge, error)
}

// HTTPClient is the production Client over the provider's HTTP API. A
// circuit breaker sits around the transport so a dead provider fails fast
// instead of tying up checkout requests.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	metrics    *observability.Metrics
}

// NewHTTPClient creates a client for the configured provider endpoint.
func NewHTTPClient(cfg *config.GatewayConfig, metrics *observability.Metrics) *HTTPClient {
	threshold := cfg.CircuitBreakerThreshold
	if threshold <= 0 {
		threshold = 10
	}
	timeout := cfg.CircuitBreakerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "stripe",
		MaxRequests: 10,
		Interval:    60 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= uint32(threshold) && failureRatio >= 0.6
		},
	})

	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		breaker: breaker,
		metrics: metrics,
	}
}

type tokenResponse struct {
	ID string `json:"id"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateToken exchanges raw card fields for an opaque single-use token.
func (c *HTTPClient) CreateToken(ctx context.Context, apiKey string, card CardParams) (string, error) {
	form := url.Values{}
	form.Set("card[number]", card.Number)
	form.Set("card[exp_month]", strconv.Itoa(card.ExpMonth))
	form.Set("card[exp_year]", strconv.Itoa(card.ExpYear))
	form.Set("card[cvc]", card.CVC)
	form.Set("card[name]", card.Name)

	body, err := c.do(ctx, "create_token", apiKey, "/v1/tokens", form)
	if err != nil {
		return "", err
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.ID == "" {
		return "", domainErrors.NewDomainError("empty_token", "provider returned no token id", domainErrors.ErrGatewayRejected)
	}
	return tok.ID, nil
}

// CreateCharge creates a charge against a token. The amount is integer
// minor-currency units.
func (c *HTTPClient) CreateCharge(ctx context.Context, apiKey string, params ChargeParams) (*Charge, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.AmountCents, 10))
	form.Set("currency", params.Currency)
	form.Set("description", params.Description)
	form.Set("source", params.TokenID)
	form.Set("capture", strconv.FormatBool(params.Capture))

	body, err := c.do(ctx, "create_charge", apiKey, "/v1/charges", form)
	if err != nil {
		return nil, err
	}

	var charge Charge
	if err := json.Unmarshal(body, &charge); err != nil {
		return nil, fmt.Errorf("decode charge response: %w", err)
	}
	return &charge, nil
}

// do posts a form-encoded request through the breaker and returns the raw
// response body. Provider rejections and transport failures surface as
// domain errors; there is no retry.
func (c *HTTPClient) do(ctx context.Context, operation, apiKey, path string, form url.Values) ([]byte, error) {
	start := time.Now()

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.String("gateway.operation", operation))
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+apiKey)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, domainErrors.ErrGatewayTimeout
			}
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrGatewayUnavailable, err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode >= 400 {
			var apiErr apiError
			msg := http.StatusText(resp.StatusCode)
			if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
				msg = apiErr.Error.Message
			}
			if resp.StatusCode >= 500 {
				return nil, domainErrors.NewDomainError("provider_error", msg, domainErrors.ErrGatewayUnavailable)
			}
			return nil, domainErrors.NewDomainError(apiErr.Error.Code, msg, domainErrors.ErrGatewayRejected)
		}

		return raw, nil
	})

	if c.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		c.metrics.GatewayRequestsTotal.WithLabelValues(operation, status).Inc()
		c.metrics.GatewayRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrGatewayUnavailable, err)
	}
	return body, err
}
