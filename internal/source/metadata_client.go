// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/picky-app/picky-server/internal/config"
	"github.com/picky-app/picky-server/internal/metrics"
	"github.com/picky-app/picky-server/internal/models"
)

// MetadataClient talks to the movie-metadata HTTP API (multi-search and
// similar-items).
//
// Features:
//   - 30-second request timeout
//   - Client-side rate limiting (shared token bucket across calls)
//   - Automatic retry on HTTP 429 with exponential backoff and
//     Retry-After support (up to 5 retries: 1s, 2s, 4s, 8s, 16s)
//   - Circuit breaker with prometheus state metrics
//
// Thread safety: safe for concurrent use; each request builds its own
// http.Request.
type MetadataClient struct {
	baseURL        string
	apiKey         string
	language       string
	region         string
	client         *http.Client
	limiter        *rate.Limiter
	cb             *gobreaker.CircuitBreaker[[]byte]
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewMetadataClient creates a metadata API client from configuration.
func NewMetadataClient(cfg *config.MetadataConfig) *MetadataClient {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 20
	}
	return &MetadataClient{
		baseURL:        cfg.URL,
		apiKey:         cfg.APIKey,
		language:       cfg.Language,
		region:         cfg.Region,
		client:         &http.Client{Timeout: 30 * time.Second},
		limiter:        rate.NewLimiter(rate.Limit(rps), rps),
		cb:             newBreaker("metadata-api"),
		maxRetries:     5,
		retryBaseDelay: 1 * time.Second,
	}
}

// MultiSearch runs a free-text search across movies, TV and people. Person
// hits and hits without a poster survive normalization here; the orchestrator
// applies the poster/media-type filter so that filtering policy lives in one
// place.
func (c *MetadataClient) MultiSearch(ctx context.Context, query string, page int) ([]models.ResultItem, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(max(page, 1)))
	params.Set("include_adult", "false")

	var pageResp searchPage
	if err := c.get(ctx, "/search/multi", params, &pageResp); err != nil {
		return nil, err
	}

	items := make([]models.ResultItem, 0, len(pageResp.Results))
	for _, hit := range pageResp.Results {
		items = append(items, normalizeHit(hit, ""))
	}
	return items, nil
}

// Similar returns items similar to the given title. Hits from this endpoint
// carry no media_type; the requested type is used as the fallback.
func (c *MetadataClient) Similar(ctx context.Context, id int, mediaType models.MediaType, page int) ([]models.ResultItem, error) {
	if mediaType != models.MediaTypeMovie && mediaType != models.MediaTypeTV {
		return nil, fmt.Errorf("similar: unsupported media type %q", mediaType)
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(max(page, 1)))

	path := fmt.Sprintf("/%s/%d/similar", mediaType, id)
	var pageResp searchPage
	if err := c.get(ctx, path, params, &pageResp); err != nil {
		return nil, err
	}

	items := make([]models.ResultItem, 0, len(pageResp.Results))
	for _, hit := range pageResp.Results {
		items = append(items, normalizeHit(hit, mediaType))
	}
	return items, nil
}

// get performs a rate-limited, breaker-protected GET and decodes the JSON
// response into result.
func (c *MetadataClient) get(ctx context.Context, path string, params url.Values, result any) error {
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	if c.region != "" {
		params.Set("region", c.region)
	}
	reqURL := c.baseURL + path + "?" + params.Encode()

	body, err := executeThroughBreaker(c.cb, func() ([]byte, error) {
		return c.doWithRetry(ctx, reqURL)
	})
	metrics.RecordUpstreamCall("metadata", time.Since(start), err, errKind(err))
	if err != nil {
		return fmt.Errorf("%w: metadata %s: %v", ErrUpstream, path, err)
	}

	if err := json.Unmarshal(body, result); err != nil {
		metrics.UpstreamErrors.WithLabelValues("metadata", "decode").Inc()
		return fmt.Errorf("%w: metadata %s: decode: %v", ErrUpstream, path, err)
	}
	return nil
}

// doWithRetry performs the request with automatic 429 handling: exponential
// backoff (1s, 2s, 4s, 8s, 16s) honouring Retry-After, cancellable via ctx.
func (c *MetadataClient) doWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
				return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
			}
			return io.ReadAll(resp.Body)
		}

		// Rate limited: close body and retry with backoff.
		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, perr := time.ParseDuration(retryAfter + "s"); perr == nil {
				delay = seconds
			}
		}
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// errKind classifies an error for the upstream_errors_total metric.
func errKind(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "rejected"
	}
	return "transport"
}
