// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Timestamp: false, Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("key", "value").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"key":"value"`) {
		t.Errorf("expected structured field in output, got %q", out)
	}
	if !strings.Contains(out, `"message":"hello"`) {
		t.Errorf("expected message field in output, got %q", out)
	}
}

func TestCtxAddsCorrelationAndRequestIDs(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Timestamp: false, Output: &buf})
	defer Init(DefaultConfig())

	ctx := context.Background()
	ctx = ContextWithCorrelationID(ctx, "abc12345")
	ctx = ContextWithRequestID(ctx, "req-1")

	Ctx(ctx).Info().Msg("traced")

	out := buf.String()
	if !strings.Contains(out, `"correlation_id":"abc12345"`) {
		t.Errorf("missing correlation_id in %q", out)
	}
	if !strings.Contains(out, `"request_id":"req-1"`) {
		t.Errorf("missing request_id in %q", out)
	}
}

func TestCtxWithoutIDsOmitsFields(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Timestamp: false, Output: &buf})
	defer Init(DefaultConfig())

	Ctx(context.Background()).Info().Msg("plain")

	out := buf.String()
	if strings.Contains(out, "correlation_id") || strings.Contains(out, "request_id") {
		t.Errorf("unexpected tracing fields in %q", out)
	}
}

func TestGenerateCorrelationIDLength(t *testing.T) {
	id := GenerateCorrelationID()
	if len(id) != 8 {
		t.Errorf("correlation ID length = %d, want 8", len(id))
	}
}

func TestSlogAdapterRoutesToZerolog(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Timestamp: false, Output: &buf})
	defer Init(DefaultConfig())

	slogger := NewSlogLogger()
	slogger.Info("supervised", "service", "http-server")

	out := buf.String()
	if !strings.Contains(out, `"service":"http-server"`) {
		t.Errorf("missing slog attr in %q", out)
	}
	if !strings.Contains(out, `"message":"supervised"`) {
		t.Errorf("missing message in %q", out)
	}
}
