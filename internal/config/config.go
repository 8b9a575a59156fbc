// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

// Package config loads application configuration via Koanf v2 with layered
// sources (highest priority wins): environment variables, an optional YAML
// config file, and built-in defaults.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Metadata   MetadataConfig   `koanf:"metadata"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Discover   DiscoverConfig   `koanf:"discover"`
	Search     SearchConfig     `koanf:"search"`
	RateLimit  RateLimitConfig  `koanf:"ratelimit"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// MetadataConfig configures the movie-metadata API client.
type MetadataConfig struct {
	URL      string `koanf:"url"`
	APIKey   string `koanf:"api_key"`
	Language string `koanf:"language"`
	Region   string `koanf:"region"`

	// RequestsPerSecond bounds the client-side token bucket shared by
	// the concurrent variant fan-out.
	RequestsPerSecond int `koanf:"requests_per_second"`
}

// ClassifierConfig configures the AI intent-classifier client.
type ClassifierConfig struct {
	URL      string        `koanf:"url"`
	APIKey   string        `koanf:"api_key"`
	Language string        `koanf:"language"`
	Region   string        `koanf:"region"`
	Timeout  time.Duration `koanf:"timeout"`
}

// DiscoverConfig configures the discover (recommendation) engine client.
type DiscoverConfig struct {
	URL     string        `koanf:"url"`
	APIKey  string        `koanf:"api_key"`
	Region  string        `koanf:"region"`
	Timeout time.Duration `koanf:"timeout"`
}

// SearchConfig configures the search pipeline.
type SearchConfig struct {
	// MaxVariants caps the expanded-query retrieval fan-out.
	MaxVariants int `koanf:"max_variants"`

	// MaxKeywords caps the expanded include-keyword list.
	MaxKeywords int `koanf:"max_keywords"`

	// DefaultLimit is the ranked-result cap when the request gives none.
	DefaultLimit int `koanf:"default_limit"`

	// CacheSize and CacheTTL size the ranked-response LRU cache.
	// CacheSize 0 disables caching.
	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
}

// RateLimitConfig configures per-IP HTTP request rate limiting.
type RateLimitConfig struct {
	RequestsPerMinute int `koanf:"requests_per_minute"`
}

// defaultConfig returns a Config with all defaults applied. These are loaded
// first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            4178,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metadata: MetadataConfig{
			URL:               "https://api.themoviedb.org/3",
			Language:          "ko-KR",
			Region:            "KR",
			RequestsPerSecond: 20,
		},
		Classifier: ClassifierConfig{
			Language: "ko",
			Region:   "KR",
			Timeout:  20 * time.Second,
		},
		Discover: DiscoverConfig{
			Region:  "KR",
			Timeout: 30 * time.Second,
		},
		Search: SearchConfig{
			MaxVariants:  6,
			MaxKeywords:  24,
			DefaultLimit: 24,
			CacheSize:    512,
			CacheTTL:     2 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 120,
		},
	}
}

// Validate checks the configuration for consistency. It is called after all
// layers are loaded.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	for name, raw := range map[string]string{
		"metadata.url":   c.Metadata.URL,
		"classifier.url": c.Classifier.URL,
		"discover.url":   c.Discover.URL,
	} {
		if raw == "" {
			return fmt.Errorf("%s is required", name)
		}
		if _, err := url.ParseRequestURI(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.Search.MaxVariants < 1 || c.Search.MaxVariants > 6 {
		return fmt.Errorf("search.max_variants %d out of range [1,6]", c.Search.MaxVariants)
	}
	if c.Search.MaxKeywords < 1 {
		return fmt.Errorf("search.max_keywords must be positive")
	}
	if c.Search.DefaultLimit < 1 || c.Search.DefaultLimit > 100 {
		return fmt.Errorf("search.default_limit %d out of range [1,100]", c.Search.DefaultLimit)
	}
	if c.Search.CacheSize < 0 {
		return fmt.Errorf("search.cache_size must not be negative")
	}
	if c.RateLimit.RequestsPerMinute < 1 {
		return fmt.Errorf("ratelimit.requests_per_minute must be positive")
	}
	return nil
}
