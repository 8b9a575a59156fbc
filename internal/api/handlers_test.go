// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"

	"github.com/picky-app/picky-server/internal/lexicon"
	"github.com/picky-app/picky-server/internal/models"
	"github.com/picky-app/picky-server/internal/search"
	"github.com/picky-app/picky-server/internal/source"
)

// stub collaborators wired through a real engine; handler tests exercise the
// full HTTP-to-pipeline path.
type stubMetadata struct {
	items []models.ResultItem
	err   error
	calls atomic.Int32
}

func (s *stubMetadata) MultiSearch(context.Context, string, int) ([]models.ResultItem, error) {
	s.calls.Add(1)
	return s.items, s.err
}

func (s *stubMetadata) Similar(context.Context, int, models.MediaType, int) ([]models.ResultItem, error) {
	return nil, nil
}

type stubClassifier struct {
	err   error
	calls atomic.Int32
}

func (s *stubClassifier) Classify(context.Context, string) (models.SearchIntent, error) {
	s.calls.Add(1)
	return models.SearchIntent{}, s.err
}

type stubDiscover struct {
	items []models.ResultItem
	err   error
}

func (s *stubDiscover) Discover(context.Context, source.DiscoverPlan) ([]models.ResultItem, error) {
	return s.items, s.err
}

func newTestHandler(md source.Metadata, cl source.Classifier, ds source.Discover) *Handler {
	lx := lexicon.Default()
	engine := search.NewEngine(lx, md, cl, ds, nil, search.Options{})
	return NewHandler(engine, lx)
}

func defaultTestHandler() *Handler {
	hit := models.ResultItem{
		ID: 27205, MediaType: models.MediaTypeMovie,
		Title: "인셉션", PosterPath: "/p.jpg", VoteAverage: 8.4,
	}
	return newTestHandler(
		&stubMetadata{items: []models.ResultItem{hit}},
		&stubClassifier{},
		&stubDiscover{},
	)
}

func newTestServer(t *testing.T, h *Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(h, RouterConfig{
		CORSOrigins:       []string{"*"},
		RequestsPerMinute: 1000,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func decodeResponse(t *testing.T, resp *http.Response) APIResponse {
	t.Helper()
	defer resp.Body.Close()
	var envelope APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response envelope: %v", err)
	}
	return envelope
}

func TestSearchEndpoint(t *testing.T) {
	srv := newTestServer(t, defaultTestHandler())

	resp, err := http.Get(srv.URL + "/api/v1/search?q=" + url.QueryEscape("인셉션"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	envelope := decodeResponse(t, resp)
	if !envelope.Success {
		t.Fatalf("success = false: %+v", envelope.Error)
	}
	if envelope.Meta == nil || envelope.Meta.RequestID == "" {
		t.Error("meta request_id missing")
	}

	data, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatal(err)
	}
	var body search.Response
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Results) == 0 || body.Results[0].ID != 27205 {
		t.Errorf("results = %+v, want 인셉션 first", body.Results)
	}
}

func TestSearchEndpointMissingQuery(t *testing.T) {
	srv := newTestServer(t, defaultTestHandler())

	for _, target := range []string{"/api/v1/search", "/api/v1/search?q="} {
		resp, err := http.Get(srv.URL + target)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, resp.StatusCode)
		}
		envelope := decodeResponse(t, resp)
		if envelope.Error == nil || envelope.Error.Code != ErrCodeBadRequest {
			t.Errorf("%s: error = %+v, want %s", target, envelope.Error, ErrCodeBadRequest)
		}
	}
}

func TestSearchEndpointWhitespaceQuery(t *testing.T) {
	md := &stubMetadata{}
	cl := &stubClassifier{}
	srv := newTestServer(t, newTestHandler(md, cl, &stubDiscover{}))

	resp, err := http.Get(srv.URL + "/api/v1/search?q=" + url.QueryEscape("   "))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 for whitespace-only query", resp.StatusCode)
	}
	envelope := decodeResponse(t, resp)
	if !envelope.Success {
		t.Error("whitespace-only query should be a success with empty results")
	}
	if md.calls.Load() != 0 || cl.calls.Load() != 0 {
		t.Errorf("whitespace-only query reached upstreams: metadata=%d classifier=%d",
			md.calls.Load(), cl.calls.Load())
	}
}

func TestQueryLengthCap(t *testing.T) {
	srv := newTestServer(t, defaultTestHandler())

	long := url.QueryEscape(strings.Repeat("글", 201))
	for _, target := range []string{"/api/v1/search?q=", "/api/v1/expand?q="} {
		resp, err := http.Get(srv.URL + target + long)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400 for over-long query", target, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestSearchEndpointBadLimit(t *testing.T) {
	srv := newTestServer(t, defaultTestHandler())

	for _, limit := range []string{"abc", "0", "101", "-5"} {
		resp, err := http.Get(srv.URL + "/api/v1/search?q=x&limit=" + limit)
		if err != nil {
			t.Fatal(err)
		}
		envelope := decodeResponse(t, resp)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", limit, resp.StatusCode)
		}
		if envelope.Success || envelope.Error == nil {
			t.Errorf("limit=%s: error envelope missing", limit)
		}
	}
}

func TestSearchEndpointUpstreamFailure(t *testing.T) {
	h := newTestHandler(
		&stubMetadata{},
		&stubClassifier{},
		&stubDiscover{err: errors.New("discover down")},
	)
	srv := newTestServer(t, h)

	resp, err := http.Get(srv.URL + "/api/v1/search?q=" + url.QueryEscape("인셉션"))
	if err != nil {
		t.Fatal(err)
	}
	envelope := decodeResponse(t, resp)
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != ErrCodeExternalServiceFail {
		t.Errorf("error = %+v, want %s", envelope.Error, ErrCodeExternalServiceFail)
	}
}

func TestLexiconResolveEndpoint(t *testing.T) {
	srv := newTestServer(t, defaultTestHandler())

	resp, err := http.Get(srv.URL + "/api/v1/lexicon/resolve?term=" + url.QueryEscape("디즈니"))
	if err != nil {
		t.Fatal(err)
	}
	envelope := decodeResponse(t, resp)
	if resp.StatusCode != http.StatusOK || !envelope.Success {
		t.Fatalf("resolve failed: %d %+v", resp.StatusCode, envelope.Error)
	}

	data, _ := json.Marshal(envelope.Data)
	var body resolveResponse
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}
	if !body.Found || len(body.Aliases) == 0 {
		t.Errorf("resolve 디즈니 = %+v, want found with aliases", body)
	}
}

func TestLexiconResolveEndpointMiss(t *testing.T) {
	srv := newTestServer(t, defaultTestHandler())

	resp, err := http.Get(srv.URL + "/api/v1/lexicon/resolve?term=" + url.QueryEscape("없는키워드12345"))
	if err != nil {
		t.Fatal(err)
	}
	envelope := decodeResponse(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 for a lexicon miss", resp.StatusCode)
	}

	data, _ := json.Marshal(envelope.Data)
	var body resolveResponse
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}
	if body.Found {
		t.Error("unknown term reported as found")
	}
}

func TestLexiconResolveEndpointMissingTerm(t *testing.T) {
	srv := newTestServer(t, defaultTestHandler())

	resp, err := http.Get(srv.URL + "/api/v1/lexicon/resolve")
	if err != nil {
		t.Fatal(err)
	}
	decodeResponse(t, resp)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestExpandEndpoint(t *testing.T) {
	srv := newTestServer(t, defaultTestHandler())

	resp, err := http.Get(srv.URL + "/api/v1/expand?q=" + url.QueryEscape("디즈니 애니 추천"))
	if err != nil {
		t.Fatal(err)
	}
	envelope := decodeResponse(t, resp)
	if resp.StatusCode != http.StatusOK || !envelope.Success {
		t.Fatalf("expand failed: %d %+v", resp.StatusCode, envelope.Error)
	}

	data, _ := json.Marshal(envelope.Data)
	var body expandResponse
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Variants) == 0 || body.Variants[0] != "디즈니 애니 추천" {
		t.Errorf("variants = %v, want original query first", body.Variants)
	}
	if len(body.Tags) == 0 {
		t.Error("no tags detected for a lexicon-rich query")
	}
}

func TestExpandEndpointMaxParam(t *testing.T) {
	srv := newTestServer(t, defaultTestHandler())

	resp, err := http.Get(srv.URL + "/api/v1/expand?max=2&q=" + url.QueryEscape("디즈니 애니 추천"))
	if err != nil {
		t.Fatal(err)
	}
	envelope := decodeResponse(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	data, _ := json.Marshal(envelope.Data)
	var body expandResponse
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Variants) > 2 {
		t.Errorf("variants = %v, want at most 2", body.Variants)
	}

	resp, err = http.Get(srv.URL + "/api/v1/expand?max=9&q=x")
	if err != nil {
		t.Fatal(err)
	}
	decodeResponse(t, resp)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("max=9 status = %d, want 400", resp.StatusCode)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, defaultTestHandler())

	for _, path := range []string{"/api/v1/health", "/api/v1/health/live", "/api/v1/health/ready"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		envelope := decodeResponse(t, resp)
		if resp.StatusCode != http.StatusOK || !envelope.Success {
			t.Errorf("%s: status = %d success = %v", path, resp.StatusCode, envelope.Success)
		}
	}
}

func TestNotFoundEnvelope(t *testing.T) {
	srv := newTestServer(t, defaultTestHandler())

	resp, err := http.Get(srv.URL + "/api/v1/nope")
	if err != nil {
		t.Fatal(err)
	}
	envelope := decodeResponse(t, resp)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v, want NOT_FOUND envelope", envelope.Error)
	}
}

func TestMethodNotAllowedEnvelope(t *testing.T) {
	srv := newTestServer(t, defaultTestHandler())

	resp, err := http.Post(srv.URL + "/api/v1/search", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	envelope := decodeResponse(t, resp)
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != ErrCodeMethodNotAllowed {
		t.Errorf("error = %+v, want METHOD_NOT_ALLOWED envelope", envelope.Error)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, defaultTestHandler())

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics status = %d, want 200", resp.StatusCode)
	}
}
