// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

package intent

import "regexp"

// Language hint patterns, one per target language.
var (
	japanHints   = regexp.MustCompile(`일본|일드|재패니메이션|저패니메이션|아니메|지브리|신카이|(?i)japan|anime`)
	koreaHints   = regexp.MustCompile(`한국|국내|한드|케이드라마|K-드라마|(?i)korea|k-drama`)
	englishHints = regexp.MustCompile(`미국|헐리우드|할리우드|영어|미드|(?i)hollywood|america|english`)
)

// DetectLanguage runs the fixed-priority hint cascade and returns a language
// code or empty string.
//
// The precedence is deliberate and asymmetric: a Korea hint unconditionally
// overwrites an earlier Japan hit, but an English hint only fills an empty
// slot and never overwrites ja or ko. Downstream behavior depends on this
// exact ordering; do not "fix" it.
func DetectLanguage(prompt string) string {
	lang := ""
	if japanHints.MatchString(prompt) {
		lang = "ja"
	}
	if koreaHints.MatchString(prompt) {
		lang = "ko"
	}
	if lang == "" && englishHints.MatchString(prompt) {
		lang = "en"
	}
	return lang
}
