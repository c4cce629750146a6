// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package translation

import (
	"html"
	"regexp"
	"strings"

	"legaldir/internal/models"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// wordsPerMinute is the reading speed used for each language.
var wordsPerMinute = map[models.Language]int{
	models.LangKA: 180,
	models.LangEN: 200,
	models.LangRU: 190,
}

// WordCount counts whitespace-separated words in an HTML fragment after
// removing tags and decoding entities.
func WordCount(body string) int {
	text := tagPattern.ReplaceAllString(body, " ")
	return len(strings.Fields(html.UnescapeString(text)))
}

// ReadingTime estimates the reading time of an HTML body in whole minutes,
// rounded up. An empty body reads in 0 minutes.
func ReadingTime(body string, lang models.Language) int {
	words := WordCount(body)
	if words == 0 {
		return 0
	}
	wpm, ok := wordsPerMinute[lang]
	if !ok {
		wpm = wordsPerMinute[models.DefaultLanguage]
	}
	return (words + wpm - 1) / wpm
}
