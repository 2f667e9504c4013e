// Package extract pulls records that are serialized inline inside larger
// documents.
package extract

import (
	"fmt"
	"iter"
	"regexp"
	"regexp/syntax"
)

// Fragment is a span of a document that encodes one record. Key is empty when
// the anchor pattern does not capture one.
type Fragment struct {
	Key  string
	Body string
}

// Extractor finds fragments in a document.
type Extractor interface {
	Extract(text string) iter.Seq[Fragment]
}

// PatternExtractor locates fragments with a regular expression made of a
// literal anchor and a non-greedy capture of the body up to its terminating
// delimiter.
//
// The body capture stops at the first terminator, so a body whose values
// contain the terminator is truncated. Such fragments surface later as
// ErrMalformedRecord.
type PatternExtractor struct {
	pattern *regexp.Regexp
	keyed   bool
}

// NewPatternExtractor compiles expr, which must have either one capture group
// (body) or two (key, body).
//
// Each search after the first resumes where the previous match ended, so
// patterns anchored with ^ or \A are rejected. \b at the start of a pattern
// only sees the text after the previous match.
func NewPatternExtractor(expr string) (PatternExtractor, error) {
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return PatternExtractor{}, err
	}
	parsed, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		return PatternExtractor{}, err
	}
	if anchoredAtStart(parsed) {
		return PatternExtractor{}, fmt.Errorf("anchor pattern must not use ^ or \\A: %s", expr)
	}
	switch pattern.NumSubexp() {
	case 1:
		return PatternExtractor{pattern: pattern}, nil
	case 2:
		return PatternExtractor{pattern: pattern, keyed: true}, nil
	default:
		return PatternExtractor{}, fmt.Errorf(
			"anchor pattern must have 1 or 2 capture groups, got %d: %s",
			pattern.NumSubexp(), expr,
		)
	}
}

// MustPatternExtractor is NewPatternExtractor but it panics on error, for
// patterns declared at package level.
func MustPatternExtractor(expr string) PatternExtractor {
	extractor, err := NewPatternExtractor(expr)
	if err != nil {
		panic(err)
	}
	return extractor
}

// Extract lazily yields every non-overlapping match in text. Every call to the
// returned sequence starts over from the beginning of text.
func (e PatternExtractor) Extract(text string) iter.Seq[Fragment] {
	return func(yield func(Fragment) bool) {
		offset := 0
		for offset <= len(text) {
			loc := e.pattern.FindStringSubmatchIndex(text[offset:])
			if loc == nil {
				return
			}

			var fragment Fragment
			if e.keyed {
				fragment.Key = group(text[offset:], loc, 1)
				fragment.Body = group(text[offset:], loc, 2)
			} else {
				fragment.Body = group(text[offset:], loc, 1)
			}
			if !yield(fragment) {
				return
			}

			end := loc[1]
			if end == loc[0] {
				// empty match, step forward so we don't match the same spot forever
				end++
			}
			offset += end
		}
	}
}

func anchoredAtStart(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpBeginText, syntax.OpBeginLine:
		return true
	}
	for _, sub := range re.Sub {
		if anchoredAtStart(sub) {
			return true
		}
	}
	return false
}

func group(text string, loc []int, n int) string {
	start, end := loc[2*n], loc[2*n+1]
	if start < 0 {
		return ""
	}
	return text[start:end]
}

// Collect is a convenience that drains an extractor into a slice.
func Collect(e Extractor, text string) []Fragment {
	var out []Fragment
	for fragment := range e.Extract(text) {
		out = append(out, fragment)
	}
	return out
}
