// Package upstream is the client of the listings REST API.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/guttosm/nfsindex/config"
	"github.com/guttosm/nfsindex/internal/domain/models"
	"github.com/guttosm/nfsindex/internal/logger"
	"github.com/guttosm/nfsindex/internal/metrics"
)

// maxPages bounds ListListings so a misbehaving server cannot loop us forever.
const maxPages = 1000

// defaultRetryWait is the first pause between attempts; later pauses grow exponentially.
const defaultRetryWait = 200 * time.Millisecond

// APIError is a non-2xx answer from the listings API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream status %d", e.Status)
	}
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Message)
}

// Client talks to the listings REST API. It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	limiter   *rate.Limiter
	pageSize  int
	retries   int
	retryWait time.Duration
	log       zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetryWait sets the first pause between retried attempts.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) { c.retryWait = d }
}

// NewClient builds a Client from cfg. A non-positive RPS disables throttling.
func NewClient(cfg config.UpstreamConfig, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("upstream url %q must be absolute", cfg.BaseURL)
	}

	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(limit, 1),
		pageSize:  pageSize,
		retries:   max(cfg.Retries, 0),
		retryWait: defaultRetryWait,
		log:       logger.Component("upstream"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// endpoint joins path onto the base URL path, e.g. /api + /models.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	u.RawQuery = query.Encode()
	return u.String()
}

// getJSON performs a throttled GET and decodes a 2xx body into out. Transient
// failures (network errors, 429 and 5xx answers) are retried up to c.retries
// times with exponential backoff.
func (c *Client) getJSON(ctx context.Context, name, target string, out any) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryWait
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.retries)), ctx)

	return backoff.RetryNotify(func() error {
		err := c.get(ctx, name, target, out)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		c.log.Warn().Err(err).Str("endpoint", name).Dur("retry_in", wait).Msg("upstream request failed, retrying")
	})
}

// retryable reports whether a failed request may succeed when repeated.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= http.StatusInternalServerError
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// get performs a single attempt of getJSON.
func (c *Client) get(ctx context.Context, name, target string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: throttle: %w", name, err)
	}

	start := time.Now()
	status := "error"
	defer func() { metrics.RecordUpstream(name, status, time.Since(start).Seconds()) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()
	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &body) == nil {
			apiErr.Message = body.Error
		}
		c.log.Debug().Str("endpoint", name).Int("status", resp.StatusCode).Str("error", apiErr.Message).Msg("upstream error")
		return fmt.Errorf("%s: %w", name, apiErr)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", name, err)
	}
	return nil
}

// ListModels calls GET /models.
func (c *Client) ListModels(ctx context.Context) ([]models.VehicleModel, error) {
	var out []models.VehicleModel
	if err := c.getJSON(ctx, "models", c.endpoint("/models", nil), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.VehicleModel{}
	}
	return out, nil
}

// ListListingsPage calls GET /listings for one page (1-based).
func (c *Client) ListListingsPage(ctx context.Context, modelID int64, page, perPage int) ([]models.Listing, error) {
	q := url.Values{}
	q.Set("model_id", strconv.FormatInt(modelID, 10))
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var body struct {
		Listings []models.Listing `json:"listings"`
	}
	if err := c.getJSON(ctx, "listings", c.endpoint("/listings", q), &body); err != nil {
		return nil, err
	}
	return body.Listings, nil
}

// ListListings pages through GET /listings until a short page and returns
// every listing of the model, dropping ids repeated across pages.
func (c *Client) ListListings(ctx context.Context, modelID int64) ([]models.Listing, error) {
	all := []models.Listing{}
	seen := make(map[int64]struct{})

	for page := 1; page <= maxPages; page++ {
		batch, err := c.ListListingsPage(ctx, modelID, page, c.pageSize)
		if err != nil {
			return nil, err
		}
		for _, l := range batch {
			if _, dup := seen[l.ID]; dup {
				continue
			}
			seen[l.ID] = struct{}{}
			all = append(all, l)
		}
		if len(batch) < c.pageSize {
			c.flagUnknownSources(modelID, all)
			return all, nil
		}
	}
	c.log.Warn().Int64("model_id", modelID).Int("pages", maxPages).Msg("listing pagination truncated")
	c.flagUnknownSources(modelID, all)
	return all, nil
}

// flagUnknownSources warns once per fetch about marketplaces this service
// does not know. The listings are kept as returned.
func (c *Client) flagUnknownSources(modelID int64, listings []models.Listing) {
	if unknown := unknownSources(listings); len(unknown) > 0 {
		c.log.Warn().Int64("model_id", modelID).Strs("sources", unknown).Msg("listings from unknown sources")
	}
}

// unknownSources returns the distinct invalid sources in listings, sorted.
func unknownSources(listings []models.Listing) []string {
	var out []string
	for _, l := range listings {
		if !l.Source.Valid() && !slices.Contains(out, string(l.Source)) {
			out = append(out, string(l.Source))
		}
	}
	slices.Sort(out)
	return out
}

type wireTrend struct {
	Period   string  `json:"period"`
	AvgPrice float64 `json:"avg_price"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
	Count    int     `json:"count"`
}

// GetTrends calls GET /analytics/trends and normalizes periods to YYYY-MM-01.
func (c *Client) GetTrends(ctx context.Context, modelID int64) ([]models.TrendPoint, error) {
	q := url.Values{}
	q.Set("model_id", strconv.FormatInt(modelID, 10))

	var body struct {
		Trends []wireTrend `json:"trends"`
	}
	if err := c.getJSON(ctx, "trends", c.endpoint("/analytics/trends", q), &body); err != nil {
		return nil, err
	}

	out := make([]models.TrendPoint, 0, len(body.Trends))
	for _, w := range body.Trends {
		d, err := models.ParseDate(w.Period)
		if err != nil {
			return nil, fmt.Errorf("trends: %w", err)
		}
		out = append(out, models.TrendPoint{
			Period:   d.MonthKey(),
			AvgPrice: w.AvgPrice,
			MinPrice: w.MinPrice,
			MaxPrice: w.MaxPrice,
			Count:    w.Count,
		})
	}
	return out, nil
}

// GetStats calls GET /analytics/stats.
func (c *Client) GetStats(ctx context.Context, modelID int64) (models.StatsSummary, error) {
	q := url.Values{}
	q.Set("model_id", strconv.FormatInt(modelID, 10))

	var out models.StatsSummary
	if err := c.getJSON(ctx, "stats", c.endpoint("/analytics/stats", q), &out); err != nil {
		return models.StatsSummary{}, err
	}
	return out, nil
}

// Ping calls GET /health at the API host root.
func (c *Client) Ping(ctx context.Context) error {
	health := c.baseURL.ResolveReference(&url.URL{Path: "/health"})
	return c.getJSON(ctx, "health", health.String(), nil)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
