// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

// Package source implements HTTP clients for the three upstream
// collaborators of the search pipeline: the movie-metadata API (multi-search
// and similar-items), the AI intent classifier, and the discover
// (recommendation) engine.
//
// Each client normalizes its source-specific payload into models.ResultItem
// at the boundary; merge and scoring logic never sees raw upstream shapes.
// All clients wrap their calls in a circuit breaker and record per-source
// prometheus metrics.
package source

import (
	"context"
	"errors"

	"github.com/picky-app/picky-server/internal/models"
)

// ErrUpstream wraps any upstream call failure so callers can distinguish
// collaborator faults from local errors.
var ErrUpstream = errors.New("upstream call failed")

// Metadata searches the movie-metadata API. Both calls may fail
// independently; the orchestrator treats their failures as non-fatal.
type Metadata interface {
	// MultiSearch runs a free-text search across movies, TV and people.
	// Person hits are discarded during normalization.
	MultiSearch(ctx context.Context, query string, page int) ([]models.ResultItem, error)

	// Similar returns items similar to the given title.
	Similar(ctx context.Context, id int, mediaType models.MediaType, page int) ([]models.ResultItem, error)
}

// Classifier estimates structured intent from a raw prompt. Its failure is
// fatal to a search: masking it with defaults would silently change ranking.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (models.SearchIntent, error)
}

// DiscoverPlan is the fully resolved plan carried to the discover engine.
type DiscoverPlan struct {
	Prompt           string             `json:"prompt"`
	MediaTypes       []models.MediaType `json:"mediaTypes"`
	GenreIDs         []int              `json:"genreIds,omitempty"`
	YearFrom         *int               `json:"yearFrom,omitempty"`
	YearTo           *int               `json:"yearTo,omitempty"`
	OriginalLanguage string             `json:"originalLanguage,omitempty"`
	IncludeKeywords  []string           `json:"includeKeywords,omitempty"`
	ExcludeKeywords  []string           `json:"excludeKeywords,omitempty"`
	CompanyQueries   []string           `json:"companyQueries,omitempty"`
	Region           string             `json:"region,omitempty"`
	Page             int                `json:"page"`
}

// Discover is the recommendation engine, the primary result source. Its
// failure is fatal to a search.
type Discover interface {
	Discover(ctx context.Context, plan DiscoverPlan) ([]models.ResultItem, error)
}

// searchHit is one raw multi-search or similar-items hit. Every field is
// optional on the wire; absent fields normalize to their zero value.
type searchHit struct {
	ID               int     `json:"id"`
	MediaType        string  `json:"media_type"`
	Title            string  `json:"title"`
	Name             string  `json:"name"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
}

// searchPage is the paged envelope around search hits.
type searchPage struct {
	Page         int         `json:"page"`
	Results      []searchHit `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// normalizeHit maps a raw hit into the shared result schema. fallbackType is
// used for endpoints (similar-items) whose hits carry no media_type field.
func normalizeHit(h searchHit, fallbackType models.MediaType) models.ResultItem {
	mt := models.MediaType(h.MediaType)
	if mt == "" {
		mt = fallbackType
	}

	title := h.Title
	if title == "" {
		title = h.Name
	}
	date := h.ReleaseDate
	if date == "" {
		date = h.FirstAirDate
	}

	return models.ResultItem{
		ID:               h.ID,
		MediaType:        mt,
		Title:            title,
		Overview:         h.Overview,
		PosterPath:       h.PosterPath,
		BackdropPath:     h.BackdropPath,
		ReleaseDate:      date,
		VoteAverage:      h.VoteAverage,
		VoteCount:        h.VoteCount,
		GenreIDs:         h.GenreIDs,
		OriginalLanguage: h.OriginalLanguage,
	}
}

// discoverItem is one raw discover-engine item, already carrying a
// server-computed score and reasons.
type discoverItem struct {
	ID               int      `json:"id"`
	MediaType        string   `json:"mediaType"`
	Title            string   `json:"title"`
	Overview         string   `json:"overview"`
	PosterPath       string   `json:"posterPath"`
	BackdropPath     string   `json:"backdropPath"`
	ReleaseDate      string   `json:"releaseDate"`
	VoteAverage      float64  `json:"voteAverage"`
	VoteCount        int      `json:"voteCount"`
	GenreIDs         []int    `json:"genreIds"`
	OriginalLanguage string   `json:"originalLanguage"`
	Providers        []string `json:"providers"`
	AgeRating        string   `json:"ageRating"`
	MatchScore       float64  `json:"matchScore"`
	MatchReasons     []string `json:"matchReasons"`
}

// discoverPage is the discover-engine response envelope.
type discoverPage struct {
	Results []discoverItem `json:"results"`
}

// normalizeDiscoverItem maps a discover item into the shared schema. The
// server-computed score becomes the base match score; the local keyword
// boost is applied on top by the orchestrator, never instead.
func normalizeDiscoverItem(d discoverItem) models.ResultItem {
	score := d.MatchScore
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return models.ResultItem{
		ID:               d.ID,
		MediaType:        models.MediaType(d.MediaType),
		Title:            d.Title,
		Overview:         d.Overview,
		PosterPath:       d.PosterPath,
		BackdropPath:     d.BackdropPath,
		ReleaseDate:      d.ReleaseDate,
		VoteAverage:      d.VoteAverage,
		VoteCount:        d.VoteCount,
		GenreIDs:         d.GenreIDs,
		OriginalLanguage: d.OriginalLanguage,
		Providers:        d.Providers,
		AgeRating:        d.AgeRating,
		MatchScore:       score,
		Reasons:          d.MatchReasons,
	}
}
