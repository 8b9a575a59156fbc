// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/search", "200"))
	RecordAPIRequest("GET", "/api/v1/search", "200", 25*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/search", "200"))
	if after != before+1 {
		t.Errorf("counter not incremented: before=%v after=%v", before, after)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != base+1 {
		t.Errorf("gauge after inc = %v, want %v", got, base+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != base {
		t.Errorf("gauge after dec = %v, want %v", got, base)
	}
}

func TestRecordUpstreamCallError(t *testing.T) {
	before := testutil.ToFloat64(UpstreamErrors.WithLabelValues("metadata", "status"))
	RecordUpstreamCall("metadata", 10*time.Millisecond, errors.New("HTTP 500"), "status")
	after := testutil.ToFloat64(UpstreamErrors.WithLabelValues("metadata", "status"))
	if after != before+1 {
		t.Errorf("error counter not incremented: before=%v after=%v", before, after)
	}
}

func TestRecordSearchOutcomes(t *testing.T) {
	before := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues("ok"))
	RecordSearch("ok", 4, 24)
	after := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues("ok"))
	if after != before+1 {
		t.Errorf("search counter not incremented: before=%v after=%v", before, after)
	}
}
