// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

package lexicon

import "strings"

// Expansion caps. The variant cap keeps retrieval fan-out bounded; the
// keyword caps keep boost lists small enough that substring matching against
// titles/overviews stays cheap.
const (
	DefaultMaxHits         = 6
	DefaultMaxVariants     = 6
	DefaultMaxKeywords     = 24
	DefaultMaxOwnKeywords  = 18
	DefaultMaxCompanyHints = 12
)

// ExpandQuery multiplies a free-text query into retrieval-friendly variants.
// The trimmed original query is always the first element. Each detected
// lexicon hit contributes variants from its aliases in two passes per hit:
// composed "{query} {alias}" first, then the bare alias, so that composed
// variants win when the cap is reached. Deduplication is case/whitespace-
// insensitive. At most maxVariants entries are returned.
func (lx *Lexicon) ExpandQuery(query string, maxVariants int) []string {
	if maxVariants <= 0 {
		maxVariants = DefaultMaxVariants
	}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil
	}

	variants := make([]string, 0, maxVariants)
	seen := make(map[string]struct{}, maxVariants)

	add := func(v string) bool {
		if len(variants) >= maxVariants {
			return false
		}
		norm := Normalize(v)
		if _, dup := seen[norm]; dup {
			return true
		}
		seen[norm] = struct{}{}
		variants = append(variants, v)
		return len(variants) < maxVariants
	}

	add(trimmed)

	for _, hit := range lx.Hits(query, DefaultMaxHits) {
		entry := lx.Resolve(hit)
		if entry == nil {
			continue
		}
		// Composed variants before bare aliases.
		for _, alias := range entry.Aliases {
			if !add(trimmed + " " + alias) {
				return variants
			}
		}
		for _, alias := range entry.Aliases {
			if !add(alias) {
				return variants
			}
		}
	}

	return variants
}

// ExpandKeywords turns a short keyword list into a boost-ready set: the
// deduplicated input, followed by every resolvable keyword's aliases, with
// stop-words removed and the result capped at maxOut. First occurrence wins
// on duplicates; input order is preserved.
func (lx *Lexicon) ExpandKeywords(keywords []string, maxOut int) []string {
	if maxOut <= 0 {
		maxOut = DefaultMaxKeywords
	}

	base := dedupeNonEmpty(keywords)

	combined := make([]string, 0, len(base)*2)
	combined = append(combined, base...)
	for _, kw := range base {
		if entry := lx.Resolve(kw); entry != nil {
			combined = append(combined, entry.Aliases...)
		}
	}

	out := make([]string, 0, maxOut)
	seen := make(map[string]struct{}, len(combined))
	for _, kw := range combined {
		norm := Normalize(kw)
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		if lx.IsStopword(kw) {
			continue
		}
		out = append(out, kw)
		if len(out) >= maxOut {
			break
		}
	}

	return out
}
