// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

// Package intent infers a structured search plan from a free-text prompt.
// Local lexicon-driven heuristics run alongside the external classifier; the
// two are merged with a confidence gate on the classifier's media types.
package intent

import (
	"regexp"
	"strconv"
	"time"

	"github.com/picky-app/picky-server/internal/lexicon"
	"github.com/picky-app/picky-server/internal/models"
)

// minClassifierConfidence gates trust in the external classifier's media
// types. Below this, local heuristic inference is used instead.
const minClassifierConfidence = 0.35

// Local is the output of local heuristic inference over a prompt.
type Local struct {
	// IncludeExpanded is the merged, alias-expanded include-keyword list.
	IncludeExpanded []string

	// CompanyQueries are candidate company names for a brand-scoped
	// retrieval call, collected from resolved hit keys.
	CompanyQueries []string

	// DetectedOriginalLanguage is the language code from the regex
	// cascade, or empty when no hint matched.
	DetectedOriginalLanguage string

	// MediaTypes and years are heuristic fallbacks, used when the
	// classifier is absent or below the confidence gate.
	MediaTypes []models.MediaType
	GenreIDs   []int
	YearFrom   *int
	YearTo     *int
}

// genreIDByKey maps lexicon genre keys to upstream genre ids
// (TMDB-compatible numbering).
var genreIDByKey = map[string]int{
	"애니":  16,
	"로맨스": 10749,
	"스릴러": 53,
	"호러":  27,
	"SF":  878,
	"판타지": 14,
	"느와르": 80,
	"다큐":  99,
	"코미디": 35,
	"시대극": 36,
}

var (
	tvTokens    = regexp.MustCompile(`드라마|시리즈|시즌|미드|한드|일드|(?i)tv|예능`)
	movieTokens = regexp.MustCompile(`영화|무비|극장판|(?i)movie|film`)
)

// Infer runs local heuristic inference: lexicon hit detection, keyword
// expansion merged with prior include keywords, company-hint collection,
// language detection, and media-type/year fallbacks.
//
// now is injected so that relative year phrases ("최신") are deterministic
// under test.
func Infer(lx *lexicon.Lexicon, prompt string, priorInclude []string, now time.Time) Local {
	hits := lx.Hits(prompt, lexicon.DefaultMaxHits)

	own := lx.ExpandKeywords(hits, lexicon.DefaultMaxOwnKeywords)
	union := make([]string, 0, len(own)+len(priorInclude))
	union = append(union, own...)
	union = append(union, priorInclude...)

	hintTerms := make([]string, 0, len(hits)+len(priorInclude))
	hintTerms = append(hintTerms, hits...)
	hintTerms = append(hintTerms, priorInclude...)

	genreIDs := make([]int, 0, 2)
	for _, hit := range hits {
		if id, ok := genreIDByKey[hit]; ok {
			genreIDs = append(genreIDs, id)
		}
	}

	yearFrom, yearTo := inferYears(prompt, now)

	return Local{
		IncludeExpanded:          lx.ExpandKeywords(union, lexicon.DefaultMaxKeywords),
		CompanyQueries:           lx.CompanyHintsFor(hintTerms, lexicon.DefaultMaxCompanyHints),
		DetectedOriginalLanguage: DetectLanguage(prompt),
		MediaTypes:               inferMediaTypes(prompt),
		GenreIDs:                 genreIDs,
		YearFrom:                 yearFrom,
		YearTo:                   yearTo,
	}
}

// inferMediaTypes guesses the requested media types from surface tokens.
// When the prompt gives no signal, both types are searched.
func inferMediaTypes(prompt string) []models.MediaType {
	wantTV := tvTokens.MatchString(prompt)
	wantMovie := movieTokens.MatchString(prompt)

	switch {
	case wantTV && !wantMovie:
		return []models.MediaType{models.MediaTypeTV}
	case wantMovie && !wantTV:
		return []models.MediaType{models.MediaTypeMovie}
	default:
		return []models.MediaType{models.MediaTypeMovie, models.MediaTypeTV}
	}
}

var (
	decadeFull  = regexp.MustCompile(`(19|20)(\d)0년대`)
	decadeShort = regexp.MustCompile(`(^|[^0-9])(\d)0년대`)
	bareYear    = regexp.MustCompile(`(19|20)\d{2}`)
	recentHint  = regexp.MustCompile(`최신|최근|요즘|신작`)
)

// inferYears extracts a year range from decade phrases ("90년대",
// "2010년대"), bare years ("2015"), or recency hints ("최신").
func inferYears(prompt string, now time.Time) (from, to *int) {
	if m := decadeFull.FindStringSubmatch(prompt); m != nil {
		start, _ := strconv.Atoi(m[1] + m[2] + "0")
		end := start + 9
		return &start, &end
	}
	if m := decadeShort.FindStringSubmatch(prompt); m != nil {
		// Two-digit decades pivot on 30: "90년대" is the 1990s,
		// "20년대" the 2020s.
		d, _ := strconv.Atoi(m[2])
		start := 1900 + d*10
		if d*10 < 30 {
			start = 2000 + d*10
		}
		end := start + 9
		return &start, &end
	}
	if m := bareYear.FindString(prompt); m != "" {
		year, _ := strconv.Atoi(m)
		return &year, &year
	}
	if recentHint.MatchString(prompt) {
		end := now.Year()
		start := end - 2
		return &start, &end
	}
	return nil, nil
}

// Merge combines the external classifier's intent with local inference into
// the resolved plan driving the discover call.
//
// The classifier's media types are trusted only at or above the confidence
// gate; genre ids are unioned; year bounds and language prefer the
// classifier and fall back to local detection.
func Merge(ai models.SearchIntent, local Local) models.SearchIntent {
	merged := ai

	if ai.Confidence < minClassifierConfidence || len(ai.MediaTypes) == 0 {
		merged.MediaTypes = local.MediaTypes
	}

	merged.GenreIDs = unionInts(ai.GenreIDs, local.GenreIDs)

	if merged.YearFrom == nil && merged.YearTo == nil {
		merged.YearFrom = local.YearFrom
		merged.YearTo = local.YearTo
	}
	if merged.OriginalLanguage == "" {
		merged.OriginalLanguage = local.DetectedOriginalLanguage
	}

	merged.IncludeKeywords = local.IncludeExpanded
	return merged
}

func unionInts(a, b []int) []int {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make([]int, 0, len(a)+len(b))
	seen := make(map[int]struct{}, len(a)+len(b))
	for _, v := range append(append([]int{}, a...), b...) {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
