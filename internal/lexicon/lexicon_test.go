// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

package lexicon

import (
	"regexp"
	"testing"
)

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"  Walt  Disney   Pictures ",
		"디즈니",
		"NETFLIX",
		"",
		"  ",
		"a\tb\nc",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	if got := Normalize("  Walt  Disney "); got != "walt disney" {
		t.Errorf("Normalize = %q, want %q", got, "walt disney")
	}
}

func TestResolveExactAndNormalized(t *testing.T) {
	lx := Default()

	exact := lx.Resolve("디즈니")
	if exact == nil {
		t.Fatal("Resolve(디즈니) = nil, want entry")
	}

	// Case/whitespace-insensitive lookup falls back to the reverse map.
	viaAlias := lx.Resolve("  디즈니 ")
	if viaAlias == nil {
		t.Fatal("Resolve with surrounding whitespace = nil, want entry")
	}
	if viaAlias != exact {
		t.Error("normalized lookup resolved a different entry than exact lookup")
	}

	if lx.Resolve("존재하지않는키") != nil {
		t.Error("Resolve of unknown term should be nil")
	}
}

func TestShortKeysExcludedFromScanButResolvable(t *testing.T) {
	lx := Build(
		[]TableEntry{
			{Key: "왕", Aliases: []string{"King"}},
			{Key: "좀비", Aliases: []string{"Zombie"}},
		},
		nil, nil,
	)

	// "왕" is a single rune: direct lookup works...
	if lx.Resolve("왕") == nil {
		t.Error("single-rune key should remain resolvable")
	}

	// ...but it must not produce substring hits.
	hits := lx.Hits("왕좌의 게임 같은 좀비물", 6)
	for _, h := range hits {
		if h == "왕" {
			t.Error("single-rune key leaked into substring scan hits")
		}
	}
	if len(hits) == 0 || hits[0] != "좀비" {
		t.Errorf("hits = %v, want leading 좀비", hits)
	}
}

func TestBuildDedupesAliases(t *testing.T) {
	lx := Build(
		[]TableEntry{
			{Key: "마블", Aliases: []string{"Marvel", "MARVEL", "  ", "marvel", "MCU"}},
		},
		nil, nil,
	)
	entry := lx.Resolve("마블")
	if entry == nil {
		t.Fatal("entry missing")
	}
	want := []string{"Marvel", "MCU"}
	if len(entry.Aliases) != len(want) {
		t.Fatalf("aliases = %v, want %v", entry.Aliases, want)
	}
	for i := range want {
		if entry.Aliases[i] != want[i] {
			t.Errorf("aliases[%d] = %q, want %q (first-seen casing retained)", i, entry.Aliases[i], want[i])
		}
	}
}

func TestHitsHashtagRulePrecedesSubstring(t *testing.T) {
	lx := Build(
		[]TableEntry{
			{Key: "디즈니", Aliases: []string{"Disney"}},
			{Key: "디즈니플러스", Aliases: []string{"Disney+"}},
		},
		[]HashtagRule{
			{Pattern: regexp.MustCompile(`디즈니\s*\+`), Key: "디즈니플러스"},
		},
		nil,
	)

	hits := lx.Hits("디즈니+ 오리지널 추천", 6)
	if len(hits) < 2 {
		t.Fatalf("hits = %v, want at least 2", hits)
	}
	if hits[0] != "디즈니플러스" {
		t.Errorf("hits[0] = %q, want hashtag-rule hit first", hits[0])
	}
	if hits[1] != "디즈니" {
		t.Errorf("hits[1] = %q, want substring hit second", hits[1])
	}
}

func TestHitsCapped(t *testing.T) {
	lx := Default()
	query := "디즈니 픽사 마블 지브리 넷플릭스 왓챠 티빙 해리포터 스타워즈"
	hits := lx.Hits(query, 6)
	if len(hits) > 6 {
		t.Errorf("hits = %d entries, want <= 6", len(hits))
	}
}

func TestCompanyHintsForDedupAndCap(t *testing.T) {
	lx := Default()

	hints := lx.CompanyHintsFor([]string{"디즈니", "디즈니플러스", "픽사"}, 12)
	seen := map[string]int{}
	for _, h := range hints {
		seen[Normalize(h)]++
	}
	for h, n := range seen {
		if n > 1 {
			t.Errorf("company hint %q appears %d times", h, n)
		}
	}

	capped := lx.CompanyHintsFor([]string{"디즈니", "마블", "DC", "지브리", "드림웍스", "넷플릭스", "왓챠", "티빙", "HBO", "애플티비", "워너", "A24", "일루미네이션"}, 3)
	if len(capped) != 3 {
		t.Errorf("capped hints = %d entries, want 3", len(capped))
	}

	// Alias-form terms contribute the same hints as their canonical key.
	viaAlias := lx.CompanyHintsFor([]string{"Disney"}, 12)
	direct := lx.CompanyHintsFor([]string{"디즈니"}, 12)
	if len(viaAlias) == 0 || len(viaAlias) != len(direct) {
		t.Errorf("hints via alias = %v, want %v", viaAlias, direct)
	}
}

func TestResolveAliasReturnsCanonicalEntry(t *testing.T) {
	lx := Default()

	canonical := lx.Resolve("디즈니")
	if canonical == nil {
		t.Fatal("Resolve(디즈니) = nil, want entry")
	}

	// Both directions of the alias relation hit the same entry.
	for _, term := range []string{"Disney", "disney", "DISNEY", "월트 디즈니", "  walt  disney  "} {
		if got := lx.Resolve(term); got != canonical {
			t.Errorf("Resolve(%q) = %v, want the 디즈니 entry", term, got)
		}
	}
}

func TestResolveAliasCollisionKeyWins(t *testing.T) {
	lx := Build(
		[]TableEntry{
			// "마블" is also declared as an alias of a second key; the
			// canonical key must win in the reverse map.
			{Key: "마블", Aliases: []string{"Marvel"}},
			{Key: "MCU", Aliases: []string{"마블", "Marvel Cinematic Universe"}},
		},
		nil, nil,
	)

	if got, want := lx.Resolve("마블"), lx.Resolve("Marvel"); got != want || got == nil {
		t.Errorf("Resolve(마블) = %v, want the 마블 key entry", got)
	}
	if got, want := lx.Resolve("marvel cinematic universe"), lx.Resolve("MCU"); got != want || got == nil {
		t.Errorf("alias of MCU resolved to %v, want the MCU entry", got)
	}
}
