package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/emission-report/internal/emissions/config"
	"github.com/yungbote/emission-report/internal/emissions/domain"
	"github.com/yungbote/emission-report/internal/emissions/upstream"
	"github.com/yungbote/emission-report/internal/platform/logger"
)

const (
	pathEmissions = "/api/emissions"
	pathCountry   = "/api/emissions/country"
	pathMaterial  = "/api/emissions/material"

	maxErrorBody = 1 << 20
)

// Client talks JSON over HTTP to the emission data record service.
type Client struct {
	baseURL  string
	apiKey   string
	timeout  time.Duration
	policies upstream.Policies

	log        *logger.Logger
	tracer     trace.Tracer
	httpClient *http.Client
}

var _ upstream.Client = (*Client)(nil)

func New(cfg config.UpstreamConfig, log *logger.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("upstream: base_url required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("upstream: invalid base_url: %w", err)
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	policies := cfg.Policies()
	def := upstream.DefaultPolicies()
	if policies.All == "" {
		policies.All = def.All
	}
	if policies.Country == "" {
		policies.Country = def.Country
	}
	if policies.Material == "" {
		policies.Material = def.Material
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		timeout:    cfg.Timeout.Duration,
		policies:   policies,
		log:        log.With("component", "upstream.httpclient"),
		tracer:     otel.Tracer("github.com/yungbote/emission-report/upstream"),
		httpClient: &http.Client{Transport: tr},
	}, nil
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(cfg config.UpstreamConfig, log *logger.Logger, httpClient *http.Client) (*Client, error) {
	c, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c, nil
}

func (c *Client) FetchAll(ctx context.Context) ([]domain.EmissionRecord, error) {
	return c.fetchList(ctx, pathEmissions, nil, c.policies.All, upstream.MsgAllNotFound)
}

func (c *Client) FetchByCountryCode(ctx context.Context, isoCode string) ([]domain.EmissionRecord, error) {
	q := url.Values{"isoCode": []string{isoCode}}
	return c.fetchList(ctx, pathCountry, q, c.policies.Country, upstream.MsgCountryNotFound)
}

func (c *Client) FetchByMaterialNo(ctx context.Context, materialNo string) ([]domain.EmissionRecord, error) {
	q := url.Values{"materialNo": []string{materialNo}}
	return c.fetchList(ctx, pathMaterial, q, c.policies.Material, upstream.MsgMaterialNotFound)
}

func (c *Client) Create(ctx context.Context, rec domain.EmissionRecord) (*domain.EmissionRecord, error) {
	return c.write(ctx, http.MethodPost, pathEmissions, rec)
}

func (c *Client) Update(ctx context.Context, rec domain.EmissionRecord) (*domain.EmissionRecord, error) {
	if strings.TrimSpace(rec.MaterialNumber) == "" {
		return nil, domain.NewValidationError(upstream.MsgUpdateMaterialMissing)
	}
	return c.write(ctx, http.MethodPut, pathMaterial, rec)
}

func (c *Client) fetchList(ctx context.Context, path string, query url.Values, policy upstream.EmptyBodyPolicy, notFoundMsg string) ([]domain.EmissionRecord, error) {
	status, raw, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &HTTPError{Method: http.MethodGet, Path: path, StatusCode: status, Body: truncate(raw)}
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		c.log.Debug("upstream returned no body", "path", path, "policy", string(policy))
		return policy.Resolve(notFoundMsg)
	}

	var out []domain.EmissionRecord
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	if out == nil {
		out = []domain.EmissionRecord{}
	}
	return out, nil
}

func (c *Client) write(ctx context.Context, method, path string, rec domain.EmissionRecord) (*domain.EmissionRecord, error) {
	status, raw, err := c.do(ctx, method, path, nil, rec)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		c.log.Warn("upstream rejected write",
			"method", method,
			"path", path,
			"status", status,
			"material_number", rec.MaterialNumber,
		)
		return nil, nil
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var out domain.EmissionRecord
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (int, []byte, error) {
	ctx, span := c.tracer.Start(ctx, "upstream "+method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	status, raw, err := c.roundTrip(ctx, method, path, query, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, nil, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	if status >= 400 {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
	return status, raw, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body any) (int, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, nil, err
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, &buf)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("upstream request failed", "method", method, "path", path, "error", err)
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}
	c.log.Debug("upstream request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp.StatusCode, raw, nil
}

func truncate(raw []byte) string {
	if len(raw) > maxErrorBody {
		raw = raw[:maxErrorBody]
	}
	return strings.TrimSpace(string(raw))
}
