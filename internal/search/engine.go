// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

// Package search implements the retrieval and merge orchestrator: query
// expansion fan-out, intent classification, similar-items follow-up, the
// discover call, and the merge/filter/boost/rank pipeline that produces the
// final result list.
package search

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/picky-app/picky-server/internal/cache"
	"github.com/picky-app/picky-server/internal/intent"
	"github.com/picky-app/picky-server/internal/lexicon"
	"github.com/picky-app/picky-server/internal/logging"
	"github.com/picky-app/picky-server/internal/metrics"
	"github.com/picky-app/picky-server/internal/models"
	"github.com/picky-app/picky-server/internal/source"
)

// Response is the outcome of one search request. An empty Results slice is a
// valid first-class outcome, distinct from an error.
type Response struct {
	// Intent summarizes how the prompt was interpreted. Nil for
	// empty-query searches, which never reach inference.
	Intent *models.SearchIntent `json:"intent,omitempty"`

	// Tags are the canonical lexicon keys detected in the query.
	Tags []string `json:"tags"`

	// Results is the ranked, deduplicated, capped result list.
	Results []models.ResultItem `json:"results"`
}

// Options tunes the pipeline. Zero values fall back to the lexicon package
// defaults.
type Options struct {
	MaxVariants  int
	MaxKeywords  int
	DefaultLimit int
	Region       string
}

func (o Options) withDefaults() Options {
	if o.MaxVariants <= 0 {
		o.MaxVariants = lexicon.DefaultMaxVariants
	}
	if o.MaxKeywords <= 0 {
		o.MaxKeywords = lexicon.DefaultMaxKeywords
	}
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = 24
	}
	return o
}

// Engine orchestrates the search pipeline over the three upstream
// collaborators. Safe for concurrent use: per-request state is local and the
// lexicon is immutable after construction.
type Engine struct {
	lx         *lexicon.Lexicon
	metadata   source.Metadata
	classifier source.Classifier
	discover   source.Discover
	responses  *cache.LRU[Response]
	opts       Options
}

// NewEngine builds an engine. responses may be nil to disable caching.
func NewEngine(lx *lexicon.Lexicon, metadata source.Metadata, classifier source.Classifier, discover source.Discover, responses *cache.LRU[Response], opts Options) *Engine {
	return &Engine{
		lx:         lx,
		metadata:   metadata,
		classifier: classifier,
		discover:   discover,
		responses:  responses,
		opts:       opts.withDefaults(),
	}
}

// Search runs the full pipeline for one prompt. limit <= 0 selects the
// configured default.
//
// Failure semantics: per-variant retrieval and the similar-items lookup
// degrade to empty result sets; classifier and discover failures abort the
// search. A partial list that silently lost its primary result source would
// be misleading, so it is never returned.
func (e *Engine) Search(ctx context.Context, query string, limit int) (Response, error) {
	query = strings.TrimSpace(query)
	if limit <= 0 {
		limit = e.opts.DefaultLimit
	}

	// Empty prompt: first-class empty outcome, no upstream calls.
	if query == "" {
		metrics.RecordSearch("empty", 0, 0)
		return Response{Tags: []string{}, Results: []models.ResultItem{}}, nil
	}

	cacheKey := lexicon.Normalize(query) + "|" + strconv.Itoa(limit)
	if cached, ok := e.responses.Get(cacheKey); ok {
		metrics.RecordSearch("ok", 0, len(cached.Results))
		return cached, nil
	}

	started := time.Now()
	log := logging.Ctx(ctx)

	variants := e.lx.ExpandQuery(query, e.opts.MaxVariants)
	tags := e.lx.Hits(query, lexicon.DefaultMaxHits)

	// Stage 1: variant fan-out and intent classification run concurrently.
	// Variant failures are swallowed per slot; a classifier failure aborts
	// the group and cancels in-flight variant calls.
	var (
		variantHits = make([][]models.ResultItem, len(variants))
		aiIntent    models.SearchIntent
	)

	stageStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i, variant := range variants {
		g.Go(func() error {
			hits, err := e.metadata.MultiSearch(gctx, variant, 1)
			if err != nil {
				log.Warn().Err(err).Str("variant", variant).
					Msg("variant search failed, continuing without it")
				return nil
			}
			variantHits[i] = hits
			return nil
		})
	}
	g.Go(func() error {
		ai, err := e.classifier.Classify(gctx, query)
		if err != nil {
			return fmt.Errorf("intent classification: %w", err)
		}
		aiIntent = ai
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.RecordSearch(outcomeForError(ctx), len(variants), 0)
		return Response{}, err
	}
	metrics.ObserveStage("fanout", time.Since(stageStart))

	// Stage 2: filter, score against the original query, rank.
	direct := e.scoreDirect(query, variantHits)

	// Stage 3: resolve the plan, then similar-items (non-fatal, only on a
	// near-exact top hit) and discover (fatal) run concurrently.
	local := intent.Infer(e.lx, query, aiIntent.IncludeKeywords, time.Now())
	merged := intent.Merge(aiIntent, local)

	plan := source.DiscoverPlan{
		Prompt:           query,
		MediaTypes:       merged.MediaTypes,
		GenreIDs:         merged.GenreIDs,
		YearFrom:         merged.YearFrom,
		YearTo:           merged.YearTo,
		OriginalLanguage: merged.OriginalLanguage,
		IncludeKeywords:  merged.IncludeKeywords,
		ExcludeKeywords:  merged.ExcludeKeywords,
		CompanyQueries:   local.CompanyQueries,
		Region:           e.opts.Region,
		Page:             1,
	}

	var (
		similar    []models.ResultItem
		discovered []models.ResultItem
	)

	stageStart = time.Now()
	g, gctx = errgroup.WithContext(ctx)
	if len(direct) > 0 && direct[0].MatchScore >= nearExactThreshold {
		top := direct[0]
		g.Go(func() error {
			items, err := e.metadata.Similar(gctx, top.ID, top.MediaType, 1)
			if err != nil {
				log.Warn().Err(err).Int("id", top.ID).
					Msg("similar-items lookup failed, continuing without it")
				return nil
			}
			similar = items
			return nil
		})
	}
	g.Go(func() error {
		items, err := e.discover.Discover(gctx, plan)
		if err != nil {
			return fmt.Errorf("discover: %w", err)
		}
		discovered = items
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.RecordSearch(outcomeForError(ctx), len(variants), 0)
		return Response{}, err
	}
	metrics.ObserveStage("retrieve", time.Since(stageStart))

	// Stage 4: merge in fixed priority order, filter, boost, rank.
	stageStart = time.Now()
	results := mergeStreams(direct, similar, discovered)
	results = filterExcluded(results, merged.ExcludeKeywords)
	results = applyBoost(results, merged.IncludeKeywords)
	rank(results)
	if len(results) > limit {
		results = results[:limit]
	}
	metrics.ObserveStage("rank", time.Since(stageStart))

	resp := Response{Intent: &merged, Tags: tags, Results: results}

	// A canceled request must not poison the cache with a truncated view.
	if ctx.Err() == nil {
		e.responses.Set(cacheKey, resp)
	}

	outcome := "ok"
	if len(results) == 0 {
		outcome = "empty"
	}
	metrics.RecordSearch(outcome, len(variants), len(results))
	log.Debug().
		Str("query", query).
		Int("variants", len(variants)).
		Int("results", len(results)).
		Dur("elapsed", time.Since(started)).
		Msg("search completed")

	return resp, nil
}

// scoreDirect flattens the per-variant hit lists in variant order, keeps
// movie/tv hits that carry a poster, scores each title against the original
// query, and sorts descending. The variant-order flattening keeps ranking
// deterministic regardless of call completion order.
func (e *Engine) scoreDirect(query string, variantHits [][]models.ResultItem) []models.ResultItem {
	var out []models.ResultItem
	for _, hits := range variantHits {
		for _, hit := range hits {
			if hit.MediaType != models.MediaTypeMovie && hit.MediaType != models.MediaTypeTV {
				continue
			}
			if hit.PosterPath == "" {
				continue
			}
			hit.MatchScore = TitleSimilarity(query, hit.Title)
			out = append(out, hit)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out
}

// mergeStreams concatenates the three result streams in fixed dedup
// priority: direct title matches, then similar-items, then discover items.
// The first occurrence of a (mediaType, id) pair wins.
func mergeStreams(direct, similar, discovered []models.ResultItem) []models.ResultItem {
	out := make([]models.ResultItem, 0, len(direct)+len(similar)+len(discovered))
	seen := make(map[string]struct{}, cap(out))
	for _, stream := range [][]models.ResultItem{direct, similar, discovered} {
		for _, item := range stream {
			key := item.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}

// filterExcluded drops items whose title+overview contains any exclude
// keyword as a case-insensitive substring.
func filterExcluded(items []models.ResultItem, excludeKeywords []string) []models.ResultItem {
	if len(excludeKeywords) == 0 {
		return items
	}
	out := items[:0]
	for _, item := range items {
		text := strings.ToLower(item.Title + " " + item.Overview)
		if containsAnyKeyword(text, excludeKeywords) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// applyBoost adds the include-keyword boost to each item's base score and
// appends a presentation-ready reason when the boost is non-zero.
func applyBoost(items []models.ResultItem, includeKeywords []string) []models.ResultItem {
	for i := range items {
		text := strings.ToLower(items[i].Title + " " + items[i].Overview)
		boost := keywordBoost(text, includeKeywords)
		if boost <= 0 {
			continue
		}
		score := items[i].MatchScore + boost
		if score > matchScoreCeiling {
			score = matchScoreCeiling
		}
		items[i].MatchScore = score
		items[i].Reasons = append(items[i].Reasons, fmt.Sprintf("키워드 매칭 +%d", int(boost)))
	}
	return items
}

// rank orders by descending match score, breaking ties by descending vote
// average.
func rank(items []models.ResultItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].MatchScore != items[j].MatchScore {
			return items[i].MatchScore > items[j].MatchScore
		}
		return items[i].VoteAverage > items[j].VoteAverage
	})
}

// outcomeForError distinguishes caller cancellation from upstream failure
// for the search outcome metric.
func outcomeForError(ctx context.Context) string {
	if ctx.Err() != nil {
		return "canceled"
	}
	return "error"
}
