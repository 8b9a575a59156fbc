// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

// Package lexicon implements the brand/franchise/genre lexicon that drives
// query understanding: a hand-curated table mapping canonical terms to their
// aliases and company hints, an index derived from it once at startup, and
// the query/keyword expansion functions built on top.
//
// The table and index are immutable after Build; all lookups are read-only
// and safe for concurrent use without synchronization.
package lexicon

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Entry is one canonical concept: a studio, platform, franchise, genre or
// mood. Aliases and CompanyHints are deduplicated case- and
// whitespace-insensitively with first-seen casing retained, and never
// contain empty strings.
type Entry struct {
	// Aliases are alternative surface forms of the canonical term, in
	// insertion order.
	Aliases []string

	// CompanyHints are official company names used to scope a
	// brand-specific retrieval call. Empty for non-brand entries.
	CompanyHints []string
}

// TableEntry pairs a canonical key with its raw entry data. The table is a
// slice rather than a map so that scan order is stable across processes.
type TableEntry struct {
	Key          string
	Aliases      []string
	CompanyHints []string
}

// HashtagRule catches shorthand or hashtag-style mentions that substring
// matching would miss (e.g. "디즈니+" for the canonical key "디즈니플러스").
// All matching rules contribute hits; order only decides hit precedence.
type HashtagRule struct {
	Pattern *regexp.Regexp
	Key     string
}

// scanKey is a precomputed (lowercased, original) key pair for substring
// containment scanning.
type scanKey struct {
	lower    string
	original string
}

// Lexicon is the built, immutable lookup structure.
type Lexicon struct {
	entries  map[string]*Entry
	normKeys map[string]string // normalized key -> original key
	scanKeys []scanKey         // keys with >= 2 runes, in table order
	rules    []HashtagRule
	stops    map[string]struct{}
}

// Normalize trims, lowercases and collapses internal whitespace. It is the
// comparison form used for all alias matching and deduplication, and is
// idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Build constructs a Lexicon from a table, hashtag rules and a stop-word
// list. It is a pure function intended to be called once at process start.
//
// Keys shorter than 2 runes are excluded from the substring scan list to
// avoid near-universal false positives, but remain resolvable via direct
// lookup.
func Build(table []TableEntry, rules []HashtagRule, stopwords []string) *Lexicon {
	lx := &Lexicon{
		entries:  make(map[string]*Entry, len(table)),
		normKeys: make(map[string]string, len(table)),
		scanKeys: make([]scanKey, 0, len(table)),
		rules:    rules,
		stops:    make(map[string]struct{}, len(stopwords)),
	}

	for _, te := range table {
		key := strings.TrimSpace(te.Key)
		if key == "" {
			continue
		}
		if _, dup := lx.entries[key]; dup {
			continue
		}

		lx.entries[key] = &Entry{
			Aliases:      dedupeNonEmpty(te.Aliases),
			CompanyHints: dedupeNonEmpty(te.CompanyHints),
		}
		lx.normKeys[Normalize(key)] = key

		if utf8.RuneCountInString(key) >= 2 {
			lx.scanKeys = append(lx.scanKeys, scanKey{
				lower:    strings.ToLower(key),
				original: key,
			})
		}
	}

	// Aliases resolve to their canonical entry too. Keys take precedence;
	// on alias collisions the first registration wins.
	for _, te := range table {
		key := strings.TrimSpace(te.Key)
		if key == "" || lx.entries[key] == nil {
			continue
		}
		for _, alias := range te.Aliases {
			norm := Normalize(alias)
			if norm == "" {
				continue
			}
			if _, taken := lx.normKeys[norm]; !taken {
				lx.normKeys[norm] = key
			}
		}
	}

	for _, s := range stopwords {
		lx.stops[Normalize(s)] = struct{}{}
	}

	return lx
}

// Resolve looks up a term, trying an exact key match first and then the
// normalized form, which covers both canonical keys and their aliases.
// Returns nil when the term is not in the lexicon; absence is a common,
// valid outcome.
func (lx *Lexicon) Resolve(term string) *Entry {
	if e, ok := lx.entries[term]; ok {
		return e
	}
	if key, ok := lx.normKeys[Normalize(term)]; ok {
		return lx.entries[key]
	}
	return nil
}

// IsStopword reports whether the term is on the generic stop-word list
// (terms too generic to be useful for keyword filtering or boosting).
func (lx *Lexicon) IsStopword(term string) bool {
	_, ok := lx.stops[Normalize(term)]
	return ok
}

// Hits detects lexicon hits in a free-text query. Hashtag-rule matches come
// first, then case-insensitive substring matches over the scan list; both in
// declaration order. The result is deduplicated case/whitespace-insensitively
// and capped at maxHits canonical keys.
func (lx *Lexicon) Hits(query string, maxHits int) []string {
	if maxHits <= 0 {
		maxHits = DefaultMaxHits
	}

	hits := make([]string, 0, maxHits)
	seen := make(map[string]struct{}, maxHits)

	add := func(key string) bool {
		norm := Normalize(key)
		if _, dup := seen[norm]; dup {
			return len(hits) < maxHits
		}
		seen[norm] = struct{}{}
		hits = append(hits, key)
		return len(hits) < maxHits
	}

	for _, rule := range lx.rules {
		if rule.Pattern.MatchString(query) {
			if !add(rule.Key) {
				return hits
			}
		}
	}

	lower := strings.ToLower(query)
	for _, sk := range lx.scanKeys {
		if strings.Contains(lower, sk.lower) {
			if !add(sk.original) {
				return hits
			}
		}
	}

	return hits
}

// CompanyHintsFor collects company hints for each resolvable term, in term
// order, deduplicated case/whitespace-insensitively and capped at max.
func (lx *Lexicon) CompanyHintsFor(terms []string, max int) []string {
	if max <= 0 {
		max = DefaultMaxCompanyHints
	}

	out := make([]string, 0, max)
	seen := make(map[string]struct{})
	for _, term := range terms {
		entry := lx.Resolve(term)
		if entry == nil {
			continue
		}
		for _, hint := range entry.CompanyHints {
			norm := Normalize(hint)
			if _, dup := seen[norm]; dup {
				continue
			}
			seen[norm] = struct{}{}
			out = append(out, hint)
			if len(out) >= max {
				return out
			}
		}
	}
	return out
}

// dedupeNonEmpty removes empty/whitespace-only strings and case/whitespace-
// insensitive duplicates, keeping first-seen casing and spacing.
func dedupeNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) == "" {
			continue
		}
		norm := Normalize(s)
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, s)
	}
	return out
}
