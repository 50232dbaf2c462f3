// Package api is a thin JSON client for the D&D 5e REST API list and detail
// endpoints. Detail records are returned as decoded JSON objects.
package api

//go:generate mockgen -destination=mock/mock_client.go -package=apimock github.com/KirkDiggler/rpg-compendium/internal/clients/api Client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/KirkDiggler/rpg-compendium/internal/entities/compendium"
	"github.com/KirkDiggler/rpg-compendium/internal/errors"
	"github.com/KirkDiggler/rpg-compendium/internal/metrics"
)

const (
	// DefaultBaseURL is the public D&D 5e API root
	DefaultBaseURL = "https://www.dnd5eapi.co/api/2014/"
	// DefaultRequestTimeout bounds every single request
	DefaultRequestTimeout = 10 * time.Second
	// DefaultRequestsPerSecond keeps a full fan-out within the public API's limits
	DefaultRequestsPerSecond = 20

	maxResponseBytes = 8 << 20
)

// Client fetches resource indexes and detail records
type Client interface {
	// ListIndex fetches GET /{resource} and returns its results in API order
	ListIndex(ctx context.Context, resource compendium.Resource) ([]*compendium.IndexEntry, error)

	// GetRecord fetches GET /{resource}/{id}
	GetRecord(ctx context.Context, resource compendium.Resource, id string) (*compendium.DetailRecord, error)
}

// Config contains configuration options for the API client.
type Config struct {
	// BaseURL for the D&D 5e API (optional, defaults to DefaultBaseURL)
	BaseURL string
	// RequestTimeout per request (optional, defaults to 10 seconds)
	RequestTimeout time.Duration
	// RequestsPerSecond for outbound calls. Zero uses the default, a
	// negative value disables limiting.
	RequestsPerSecond float64
	// HTTPClient overrides the instrumented default client (optional)
	HTTPClient *http.Client
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	vb := errors.NewValidationBuilder()
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		vb.InvalidField("BaseURL", "must be an absolute URL")
	}
	if cfg.RequestTimeout < 0 {
		vb.Field("RequestTimeout", "must not be negative")
	}

	return vb.Build()
}

type client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a new API client with the given configuration.
func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid base url")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	limit := rate.Limit(cfg.RequestsPerSecond)
	burst := int(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond < 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}

	return &client{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
	}, nil
}

type indexResponse struct {
	Count   int `json:"count"`
	Results []struct {
		Index string `json:"index"`
		Name  string `json:"name"`
	} `json:"results"`
}

func (c *client) ListIndex(ctx context.Context, resource compendium.Resource) ([]*compendium.IndexEntry, error) {
	var body indexResponse
	if err := c.get(ctx, resource, metrics.KindIndex, &body, resource.String()); err != nil {
		return nil, err
	}

	entries := make([]*compendium.IndexEntry, 0, len(body.Results))
	seen := make(map[string]struct{}, len(body.Results))
	for _, ref := range body.Results {
		if ref.Index == "" {
			continue
		}
		if _, dup := seen[ref.Index]; dup {
			slog.Debug("Dropping duplicate index entry", "resource", resource, "id", ref.Index)
			continue
		}
		seen[ref.Index] = struct{}{}
		entries = append(entries, &compendium.IndexEntry{ID: ref.Index, Name: ref.Name})
	}

	return entries, nil
}

func (c *client) GetRecord(ctx context.Context, resource compendium.Resource, id string) (*compendium.DetailRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	fields := make(map[string]any)
	if err := c.get(ctx, resource, metrics.KindDetail, &fields, resource.String(), url.PathEscape(id)); err != nil {
		return nil, err
	}

	record := &compendium.DetailRecord{ID: id, Fields: fields}
	if v, ok := fields["index"].(string); ok && v != "" {
		record.ID = v
	}
	if v, ok := fields["name"].(string); ok {
		record.Name = v
	}

	return record, nil
}

// get issues one GET below the base URL and decodes the JSON body into out.
// Path elements must already be escaped.
func (c *client) get(ctx context.Context, resource compendium.Resource, kind string, out any, elem ...string) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveAPIRequest(resource.String(), kind, errors.GetCode(err).String(), time.Since(start))
	}()

	endpoint := c.baseURL.JoinPath(elem...).String()

	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), "request abandoned while rate limited")
		}
		return errors.WrapWithCode(err, errors.CodeResourceExhausted, "rate limiter rejected request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WrapWithCodef(err, errors.CodeUnavailable, "request to %s failed", endpoint).
			WithMeta("resource", resource.String())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return errors.Newf(errors.FromHTTPStatus(resp.StatusCode), "%s returned %d", endpoint, resp.StatusCode).
			WithMeta("resource", resource.String()).
			WithMeta("status", resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return errors.WrapWithCodef(err, errors.CodeUnavailable, "failed to decode response from %s", endpoint).
			WithMeta("resource", resource.String())
	}

	return nil
}
