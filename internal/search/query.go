package search

import (
	"strings"
	"unicode/utf8"
)

// MinQueryLen is the shortest effective query that is sent to the backend
const MinQueryLen = 2

// Effective returns the query as it is matched and dispatched
func Effective(raw string) string {
	return strings.TrimSpace(raw)
}

// Qualifies reports whether raw is long enough to be dispatched
func Qualifies(raw string) bool {
	return utf8.RuneCountInString(Effective(raw)) >= MinQueryLen
}
