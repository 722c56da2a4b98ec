package textutil

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	articleRe      = regexp.MustCompile(`(?i)^(a|an|the)\s+`)
	trailingPuncRe = regexp.MustCompile(`[.,!?:;]+$`)
)

// NormalizeWhitespace collapses runs of whitespace and trims the edges.
func NormalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// NormalizeAnswer lowercases, collapses whitespace and drops trailing
// punctuation. Used for comparing Russian answers.
func NormalizeAnswer(text string) string {
	return trailingPuncRe.ReplaceAllString(strings.ToLower(NormalizeWhitespace(text)), "")
}

// NormalizeEnglish additionally strips a leading article, so "the cat"
// matches "cat".
func NormalizeEnglish(text string) string {
	return articleRe.ReplaceAllString(NormalizeAnswer(text), "")
}

// AnswersEqual compares two answers ignoring case, whitespace and
// trailing punctuation.
func AnswersEqual(expected, actual string) bool {
	return NormalizeAnswer(expected) == NormalizeAnswer(actual)
}

// AnswersEqualEnglish compares English answers, also ignoring leading
// articles.
func AnswersEqualEnglish(expected, actual string) bool {
	return NormalizeEnglish(expected) == NormalizeEnglish(actual)
}
