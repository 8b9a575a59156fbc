// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

// Package models defines the shared data shapes flowing through the search
// pipeline. Everything here is per-request and ephemeral; nothing is
// persisted.
package models

import "strconv"

// MediaType is the kind of candidate item. Upstream search can also return
// "person" hits, which the pipeline discards at the normalization boundary.
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeTV     MediaType = "tv"
	MediaTypePerson MediaType = "person"
)

// SearchIntent is the structured interpretation of a free-text prompt,
// produced by merging the external classifier's output with local
// heuristics. Constructed fresh per request and discarded afterwards.
type SearchIntent struct {
	MediaTypes         []MediaType `json:"mediaTypes,omitempty"`
	GenreIDs           []int       `json:"genreIds,omitempty"`
	YearFrom           *int        `json:"yearFrom,omitempty"`
	YearTo             *int        `json:"yearTo,omitempty"`
	OriginalLanguage   string      `json:"originalLanguage,omitempty"`
	IncludeKeywords    []string    `json:"includeKeywords,omitempty"`
	ExcludeKeywords    []string    `json:"excludeKeywords,omitempty"`
	Tone               string      `json:"tone,omitempty"`
	Pace               string      `json:"pace,omitempty"`
	Ending             string      `json:"ending,omitempty"`
	Confidence         float64     `json:"confidence"`
	NeedsClarification bool        `json:"needsClarification"`
	ClarifyingQuestion string      `json:"clarifyingQuestion,omitempty"`
}

// ResultItem is the single normalized candidate schema. Every retrieval
// source (direct search, similar-items, discover engine) is mapped into this
// shape at the client boundary; merge and scoring logic never sees raw
// upstream payloads.
//
// Field defaults for absent upstream data: numeric fields zero, string
// fields empty, slices nil.
type ResultItem struct {
	ID               int       `json:"id"`
	MediaType        MediaType `json:"mediaType"`
	Title            string    `json:"title"`
	Overview         string    `json:"overview,omitempty"`
	PosterPath       string    `json:"posterPath,omitempty"`
	BackdropPath     string    `json:"backdropPath,omitempty"`
	ReleaseDate      string    `json:"releaseDate,omitempty"`
	VoteAverage      float64   `json:"voteAverage"`
	VoteCount        int       `json:"voteCount"`
	GenreIDs         []int     `json:"genreIds,omitempty"`
	OriginalLanguage string    `json:"originalLanguage,omitempty"`
	Providers        []string  `json:"providers,omitempty"`
	AgeRating        string    `json:"ageRating,omitempty"`

	// MatchScore is the 0-100 relevance score: a title-similarity or
	// server-computed base plus the local keyword boost.
	MatchScore float64 `json:"matchScore"`

	// Reasons explains the score in presentation-ready strings, in the
	// order the contributions were applied.
	Reasons []string `json:"reasons,omitempty"`
}

// Key returns the deduplication identity of an item. No two items in a
// final ranked list share a key.
func (r ResultItem) Key() string {
	return string(r.MediaType) + ":" + strconv.Itoa(r.ID)
}
