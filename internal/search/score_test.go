// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

package search

import "testing"

func TestTitleSimilarity(t *testing.T) {
	tests := []struct {
		name  string
		query string
		title string
		want  float64
	}{
		{"exact match", "인셉션", "인셉션", 100},
		{"exact after normalization", "  인셉션  ", "인셉션", 100},
		{"exact case-insensitive", "Inception", "inception", 100},
		{"title contains query", "해리포터", "해리포터와 마법사의 돌", 96},
		{"query contains title", "인셉션 크리스토퍼 놀란", "인셉션", 92},
		{"query contains title only", "다크 나이트 라이즈 영화", "다크 나이트 라이즈", 92},
		{"one token overlap", "우주 전쟁 느낌", "우주 대모험", 78},
		{"two token overlap", "우주 전쟁 영화", "우주 전쟁의 서막", 86},
		{"no overlap", "로맨스", "액션 블록버스터", 70},
		{"token floor", "완전히 다른 무언가", "매칭 없음", 70},
		{"empty query", "", "인셉션", 0},
		{"empty title", "인셉션", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleSimilarity(tt.query, tt.title); got != tt.want {
				t.Errorf("TitleSimilarity(%q, %q) = %v, want %v", tt.query, tt.title, got, tt.want)
			}
		})
	}
}

func TestTitleSimilarityTokenClamp(t *testing.T) {
	// Four token hits would be 70+32=102 without the clamp; the token path
	// must never reach the containment band.
	query := "우주 전쟁 로봇 외계인 침공"
	title := "전쟁 로봇과 외계인, 침공과 우주"
	if got := TitleSimilarity(query, title); got != 90 {
		t.Errorf("TitleSimilarity token path = %v, want clamped 90", got)
	}
}

func TestTitleSimilaritySingleRuneTokensIgnored(t *testing.T) {
	// Single-rune query tokens must not count as hits: only "우주" may.
	if got := TitleSimilarity("a 우주 b 전쟁", "우주 대탐험"); got != 78 {
		t.Errorf("single-rune token counted: got %v, want 78", got)
	}
}

func TestKeywordBoost(t *testing.T) {
	text := "디즈니 애니메이션 명작, disney classic"

	if got := keywordBoost(text, []string{"디즈니"}); got != 4 {
		t.Errorf("one hit boost = %v, want 4", got)
	}
	if got := keywordBoost(text, []string{"디즈니", "disney", "애니메이션"}); got != 12 {
		t.Errorf("three hit boost = %v, want 12", got)
	}
	if got := keywordBoost(text, []string{"픽사"}); got != 0 {
		t.Errorf("no hit boost = %v, want 0", got)
	}
	if got := keywordBoost(text, nil); got != 0 {
		t.Errorf("nil keywords boost = %v, want 0", got)
	}

	// Five hits would be 20 without the cap.
	many := []string{"디즈니", "disney", "애니메이션", "명작", "classic"}
	if got := keywordBoost(text, many); got != 18 {
		t.Errorf("boost cap = %v, want 18", got)
	}
}

func TestContainsAnyKeyword(t *testing.T) {
	text := "좀비 아포칼립스 생존기"

	if !containsAnyKeyword(text, []string{"좀비"}) {
		t.Error("substring keyword not detected")
	}
	if containsAnyKeyword(text, []string{"로맨스", ""}) {
		t.Error("absent keyword reported as present")
	}
	if containsAnyKeyword(text, nil) {
		t.Error("nil keyword list reported a match")
	}
}
