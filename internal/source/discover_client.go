// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/picky-app/picky-server/internal/config"
	"github.com/picky-app/picky-server/internal/metrics"
	"github.com/picky-app/picky-server/internal/models"
)

// DiscoverClient talks to the recommendation (discover) engine, the primary
// result source of the pipeline. The engine computes its own matchScore and
// matchReasons server-side; the local keyword boost is applied on top.
type DiscoverClient struct {
	baseURL string
	apiKey  string
	region  string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
}

// NewDiscoverClient creates a discover-engine client from configuration.
func NewDiscoverClient(cfg *config.DiscoverConfig) *DiscoverClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DiscoverClient{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		region:  cfg.Region,
		client:  &http.Client{Timeout: timeout},
		cb:      newBreaker("discover-api"),
	}
}

// Discover fetches recommendations for the resolved plan.
func (c *DiscoverClient) Discover(ctx context.Context, plan DiscoverPlan) ([]models.ResultItem, error) {
	start := time.Now()

	if plan.Region == "" {
		plan.Region = c.region
	}
	if plan.Page <= 0 {
		plan.Page = 1
	}

	payload, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("discover: encode: %w", err)
	}

	body, err := executeThroughBreaker(c.cb, func() ([]byte, error) {
		return c.post(ctx, "/v1/discover", payload)
	})
	metrics.RecordUpstreamCall("discover", time.Since(start), err, errKind(err))
	if err != nil {
		return nil, fmt.Errorf("%w: discover: %v", ErrUpstream, err)
	}

	var page discoverPage
	if err := json.Unmarshal(body, &page); err != nil {
		metrics.UpstreamErrors.WithLabelValues("discover", "decode").Inc()
		return nil, fmt.Errorf("%w: discover: decode: %v", ErrUpstream, err)
	}

	items := make([]models.ResultItem, 0, len(page.Results))
	for _, d := range page.Results {
		items = append(items, normalizeDiscoverItem(d))
	}
	return items, nil
}

func (c *DiscoverClient) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

// Compile-time interface checks.
var (
	_ Metadata   = (*MetadataClient)(nil)
	_ Classifier = (*ClassifierClient)(nil)
	_ Discover   = (*DiscoverClient)(nil)
)
