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

// ClassifierClient talks to the AI intent-classification service.
// A classification failure is fatal to the search that needed it, so this
// client does not retry: short prompts either classify quickly or the
// orchestrator fails fast.
type ClassifierClient struct {
	baseURL  string
	apiKey   string
	language string
	region   string
	client   *http.Client
	cb       *gobreaker.CircuitBreaker[[]byte]
}

// classifyRequest is the wire shape of a classification call.
type classifyRequest struct {
	Prompt   string `json:"prompt"`
	Language string `json:"language,omitempty"`
	Region   string `json:"region,omitempty"`
}

// NewClassifierClient creates an intent-classifier client from configuration.
func NewClassifierClient(cfg *config.ClassifierConfig) *ClassifierClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &ClassifierClient{
		baseURL:  cfg.URL,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		region:   cfg.Region,
		client:   &http.Client{Timeout: timeout},
		cb:       newBreaker("classifier-api"),
	}
}

// Classify estimates structured intent for a prompt.
func (c *ClassifierClient) Classify(ctx context.Context, prompt string) (models.SearchIntent, error) {
	start := time.Now()

	payload, err := json.Marshal(classifyRequest{
		Prompt:   prompt,
		Language: c.language,
		Region:   c.region,
	})
	if err != nil {
		return models.SearchIntent{}, fmt.Errorf("classifier: encode: %w", err)
	}

	body, err := executeThroughBreaker(c.cb, func() ([]byte, error) {
		return c.post(ctx, "/v1/classify", payload)
	})
	metrics.RecordUpstreamCall("classifier", time.Since(start), err, errKind(err))
	if err != nil {
		return models.SearchIntent{}, fmt.Errorf("%w: classifier: %v", ErrUpstream, err)
	}

	var intent models.SearchIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		metrics.UpstreamErrors.WithLabelValues("classifier", "decode").Inc()
		return models.SearchIntent{}, fmt.Errorf("%w: classifier: decode: %v", ErrUpstream, err)
	}

	// Clamp confidence into [0,1]; the gate in the intent package depends
	// on it being a sane fraction.
	if intent.Confidence < 0 {
		intent.Confidence = 0
	}
	if intent.Confidence > 1 {
		intent.Confidence = 1
	}

	return intent, nil
}

func (c *ClassifierClient) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
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
