// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

package search

import (
	"strings"

	"github.com/picky-app/picky-server/internal/lexicon"
)

// Title-similarity scoring constants. The thresholds double as behavior
// switches: a ranked top hit at or above nearExactThreshold also triggers a
// similar-items lookup.
const (
	scoreExact         = 100
	scoreTitleContains = 96
	scoreQueryContains = 92
	scoreTokenBase     = 70
	scoreTokenStep     = 8
	scoreTokenCeiling  = 90
	nearExactThreshold = 96
	boostPerKeywordHit = 4
	boostCeiling       = 18
	matchScoreCeiling  = 100
)

// TitleSimilarity scores a candidate title against the original un-expanded
// query. Comparison is over normalized (trimmed, lowercased,
// whitespace-collapsed) forms:
//
//	exact match                     -> 100
//	title contains the whole query  -> 96
//	query contains the whole title  -> 92
//	otherwise 70 + 8 per query token (>= 2 runes) found in the title,
//	clamped to [70, 90]
func TitleSimilarity(query, title string) float64 {
	q := lexicon.Normalize(query)
	t := lexicon.Normalize(title)

	if q == "" || t == "" {
		return 0
	}
	if q == t {
		return scoreExact
	}
	if strings.Contains(t, q) {
		return scoreTitleContains
	}
	if strings.Contains(q, t) {
		return scoreQueryContains
	}

	hits := 0
	for _, token := range strings.Fields(q) {
		if len([]rune(token)) < 2 {
			continue
		}
		if strings.Contains(t, token) {
			hits++
		}
	}

	score := scoreTokenBase + scoreTokenStep*hits
	if score > scoreTokenCeiling {
		score = scoreTokenCeiling
	}
	return float64(score)
}

// keywordBoost counts case-insensitive substring hits of include keywords
// against an item's title+overview text and converts them to a score delta,
// capped so that keyword density can reorder neighbors but never outweigh
// the base relevance.
func keywordBoost(text string, includeKeywords []string) float64 {
	if text == "" || len(includeKeywords) == 0 {
		return 0
	}

	hits := 0
	for _, kw := range includeKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(text, kw) {
			hits++
		}
	}

	boost := hits * boostPerKeywordHit
	if boost > boostCeiling {
		boost = boostCeiling
	}
	return float64(boost)
}

// containsAnyKeyword reports whether text contains any of the given
// keywords as a case-insensitive substring. text must already be lowercased.
func containsAnyKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
