// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

package lexicon

import "regexp"

// Default builds the built-in lexicon. Called once from main; the result is
// shared read-only across all requests.
func Default() *Lexicon {
	return Build(defaultTable, defaultRules, defaultStopwords)
}

// defaultTable is the hand-curated brand/franchise/genre lexicon. Order
// matters: it fixes substring-scan hit precedence, so new entries go at the
// end of their section.
var defaultTable = []TableEntry{
	// Studios and brands
	{
		Key:          "디즈니",
		Aliases:      []string{"Disney", "월트 디즈니", "Walt Disney", "디즈니 애니메이션", "Walt Disney Animation Studios"},
		CompanyHints: []string{"Walt Disney Pictures", "Walt Disney Animation Studios"},
	},
	{
		Key:          "픽사",
		Aliases:      []string{"Pixar", "픽사 애니메이션", "Pixar Animation Studios"},
		CompanyHints: []string{"Pixar", "Pixar Animation Studios"},
	},
	{
		Key:          "마블",
		Aliases:      []string{"Marvel", "마블 시네마틱 유니버스", "MCU", "Marvel Studios"},
		CompanyHints: []string{"Marvel Studios", "Marvel Entertainment"},
	},
	{
		Key:          "DC",
		Aliases:      []string{"디씨", "DC 코믹스", "DC Comics", "DCU"},
		CompanyHints: []string{"DC Studios", "DC Entertainment", "Warner Bros. Pictures"},
	},
	{
		Key:          "지브리",
		Aliases:      []string{"Ghibli", "스튜디오 지브리", "Studio Ghibli", "미야자키"},
		CompanyHints: []string{"Studio Ghibli"},
	},
	{
		Key:          "드림웍스",
		Aliases:      []string{"DreamWorks", "드림웍스 애니메이션", "DreamWorks Animation"},
		CompanyHints: []string{"DreamWorks Animation", "DreamWorks Pictures"},
	},
	{
		Key:          "일루미네이션",
		Aliases:      []string{"Illumination", "미니언즈 제작사"},
		CompanyHints: []string{"Illumination Entertainment"},
	},
	{
		Key:          "A24",
		Aliases:      []string{"에이24", "에이투포"},
		CompanyHints: []string{"A24"},
	},
	{
		Key:          "워너",
		Aliases:      []string{"워너브라더스", "Warner Bros", "Warner Brothers"},
		CompanyHints: []string{"Warner Bros. Pictures"},
	},

	// Streaming platforms
	{
		Key:          "넷플릭스",
		Aliases:      []string{"Netflix", "넷플", "넷플릭스 오리지널", "Netflix Original"},
		CompanyHints: []string{"Netflix"},
	},
	{
		Key:          "디즈니플러스",
		Aliases:      []string{"디즈니+", "Disney+", "Disney Plus", "디즈니 플러스"},
		CompanyHints: []string{"Walt Disney Pictures"},
	},
	{
		Key:          "애플티비",
		Aliases:      []string{"애플TV", "Apple TV+", "Apple TV Plus", "애플티비 플러스"},
		CompanyHints: []string{"Apple Studios"},
	},
	{
		Key:          "왓챠",
		Aliases:      []string{"Watcha", "왓챠 익스클루시브"},
		CompanyHints: []string{"Watcha"},
	},
	{
		Key:          "티빙",
		Aliases:      []string{"TVING", "티빙 오리지널"},
		CompanyHints: []string{"TVING"},
	},
	{
		Key:          "쿠팡플레이",
		Aliases:      []string{"Coupang Play", "쿠팡 플레이"},
		CompanyHints: []string{"Coupang Play"},
	},
	{
		Key:          "HBO",
		Aliases:      []string{"에이치비오", "HBO Max", "맥스", "Max"},
		CompanyHints: []string{"HBO", "Warner Bros. Television"},
	},

	// Franchises
	{
		Key:     "해리포터",
		Aliases: []string{"Harry Potter", "해리 포터", "위저딩 월드", "Wizarding World"},
	},
	{
		Key:     "반지의제왕",
		Aliases: []string{"반지의 제왕", "The Lord of the Rings", "LOTR", "중간계"},
	},
	{
		Key:          "스타워즈",
		Aliases:      []string{"Star Wars", "스타 워즈"},
		CompanyHints: []string{"Lucasfilm"},
	},
	{
		Key:     "어벤져스",
		Aliases: []string{"Avengers", "어벤저스"},
	},
	{
		Key:     "스파이더맨",
		Aliases: []string{"Spider-Man", "스파이더 맨", "Spiderman"},
	},
	{
		Key:     "배트맨",
		Aliases: []string{"Batman", "다크나이트", "The Dark Knight"},
	},
	{
		Key:     "미션임파서블",
		Aliases: []string{"미션 임파서블", "Mission: Impossible", "Mission Impossible"},
	},
	{
		Key:     "존윅",
		Aliases: []string{"존 윅", "John Wick"},
	},
	{
		Key:     "쥬라기",
		Aliases: []string{"쥬라기 공원", "쥬라기 월드", "Jurassic Park", "Jurassic World"},
	},
	{
		Key:     "포켓몬",
		Aliases: []string{"포켓몬스터", "Pokemon", "Pokémon"},
	},

	// Genres and moods
	{
		Key:     "애니",
		Aliases: []string{"애니메이션", "Animation", "아니메", "Anime"},
	},
	{
		Key:     "로맨스",
		Aliases: []string{"멜로", "Romance", "연애", "로맨틱"},
	},
	{
		Key:     "스릴러",
		Aliases: []string{"Thriller", "서스펜스", "Suspense"},
	},
	{
		Key:     "호러",
		Aliases: []string{"공포", "Horror", "공포영화"},
	},
	{
		Key:     "SF",
		Aliases: []string{"공상과학", "Sci-Fi", "Science Fiction", "에스에프"},
	},
	{
		Key:     "판타지",
		Aliases: []string{"Fantasy", "마법"},
	},
	{
		Key:     "느와르",
		Aliases: []string{"누아르", "Noir", "범죄물"},
	},
	{
		Key:     "좀비",
		Aliases: []string{"Zombie", "좀비물"},
	},
	{
		Key:     "히어로",
		Aliases: []string{"슈퍼히어로", "Superhero", "히어로물"},
	},
	{
		Key:     "시대극",
		Aliases: []string{"사극", "Period Drama", "역사극"},
	},
	{
		Key:     "다큐",
		Aliases: []string{"다큐멘터리", "Documentary"},
	},
	{
		Key:     "코미디",
		Aliases: []string{"Comedy", "코믹", "웃긴"},
	},
	{
		Key:     "힐링",
		Aliases: []string{"힐링물", "잔잔한", "Feel Good", "Slice of Life"},
	},
	{
		Key:     "한드",
		Aliases: []string{"한국 드라마", "K-드라마", "K-Drama", "Korean Drama"},
	},
	{
		Key:     "일드",
		Aliases: []string{"일본 드라마", "J-드라마", "Japanese Drama"},
	},
	{
		Key:     "미드",
		Aliases: []string{"미국 드라마", "American Drama", "American TV Series"},
	},
}

// defaultRules catches shorthand mentions that the substring scan cannot:
// the query "디즈니+" never contains the canonical key "디즈니플러스".
var defaultRules = []HashtagRule{
	{Pattern: regexp.MustCompile(`디즈니\s*\+|(?i)disney\s*\+`), Key: "디즈니플러스"},
	{Pattern: regexp.MustCompile(`넷플[^리]|넷플$`), Key: "넷플릭스"},
	{Pattern: regexp.MustCompile(`애플\s*(티비|TV)\s*\+?|(?i)apple\s*tv`), Key: "애플티비"},
	{Pattern: regexp.MustCompile(`(?i)hbo|맥스\s*오리지널`), Key: "HBO"},
	{Pattern: regexp.MustCompile(`(?i)mcu`), Key: "마블"},
	{Pattern: regexp.MustCompile(`(?i)#?지브리|ghibli`), Key: "지브리"},
	{Pattern: regexp.MustCompile(`쿠플`), Key: "쿠팡플레이"},
}

// defaultStopwords are terms too generic to discriminate between candidates;
// boosting on them would inflate every score equally.
var defaultStopwords = []string{
	"추천", "영화", "느낌", "같은", "보여줘", "알려줘", "볼만한", "재밌는",
	"재미있는", "명작", "인기", "콘텐츠", "작품", "최고", "꿀잼",
	"movie", "film", "recommend", "best",
}
