package search

import (
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
)

// patternCacheSize covers the queries of a typing burst plus the committed one
const patternCacheSize = 32

// patterns holds compiled matchers by query. A render highlights every field
// of every row with the same query, so it compiles once per query.
var patterns = mustPatternCache()

func mustPatternCache() *lru.Cache[string, *regexp.Regexp] {
	c, err := lru.New[string, *regexp.Regexp](patternCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}

// pattern returns the case-insensitive literal matcher for query
func pattern(query string) (*regexp.Regexp, error) {
	if re, ok := patterns.Get(query); ok {
		return re, nil
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return nil, err
	}
	patterns.Add(query, re)
	return re, nil
}

// Segment is a run of text that either matched the query or did not
type Segment struct {
	Text    string
	Matched bool
}

// Highlight splits text around every case-insensitive, literal occurrence of
// query. Joining the segment texts always reproduces text exactly; if anything
// goes wrong the whole text comes back as a single unmatched segment.
func Highlight(text, query string) (segments []Segment) {
	defer func() {
		if r := recover(); r != nil {
			segments = []Segment{{Text: text}}
		}
	}()

	if query == "" || text == "" {
		return []Segment{{Text: text}}
	}

	re, err := pattern(query)
	if err != nil {
		return []Segment{{Text: text}}
	}

	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []Segment{{Text: text}}
	}

	segments = make([]Segment, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if m[0] == m[1] {
			continue
		}
		if m[0] > last {
			segments = append(segments, Segment{Text: text[last:m[0]]})
		}
		segments = append(segments, Segment{Text: text[m[0]:m[1]], Matched: true})
		last = m[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	if len(segments) == 0 {
		return []Segment{{Text: text}}
	}
	return segments
}
