// Package linker rewrites article HTML so that titles of other published
// posts become internal hyperlinks. Rewriting is a pure function applied on
// read; nothing is ever written back, so links track the live candidate set.
package linker

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/bankacem/ExtensionTo-CMS/internal/domain"
)

var (
	// Spans the rewriter must not touch: existing anchors (including their
	// text) and any other HTML tag.
	anchorRe = regexp.MustCompile(`(?is)<a\b[^>]*>.*?</a>`)
	tagRe    = regexp.MustCompile(`<[^>]*>`)
)

// Rewrite wraps the first occurrence of each candidate's title in an anchor
// to /post/{slug}. Candidates are applied in the order given (shard order);
// when one title is a substring of another, whichever candidate comes first
// claims the overlapping text. Matching is case-insensitive and whole-word,
// and the matched casing is preserved in the output.
//
// Running Rewrite over its own output is a no-op: a candidate whose slug is
// already linked in the content is skipped entirely.
func Rewrite(content string, candidates []domain.PostLink) string {
	for _, c := range candidates {
		if strings.TrimSpace(c.Title) == "" || c.Slug == "" {
			continue
		}
		if alreadyLinked(content, c.Slug) {
			continue
		}
		content = linkFirst(content, c)
	}
	return content
}

func alreadyLinked(content, slug string) bool {
	return strings.Contains(content, `href="/post/`+slug+`"`)
}

func linkFirst(content string, c domain.PostLink) string {
	re, err := regexp.Compile(titlePattern(c.Title))
	if err != nil {
		// QuoteMeta makes this unreachable for any real title; keep the
		// content untouched rather than failing the read.
		return content
	}

	protected := protectedRanges(content)
	for _, m := range re.FindAllStringIndex(content, -1) {
		if overlapsAny(protected, m[0], m[1]) {
			continue
		}
		return content[:m[0]] +
			`<a href="/post/` + c.Slug + `">` + content[m[0]:m[1]] + `</a>` +
			content[m[1]:]
	}
	return content
}

// titlePattern builds a case-insensitive literal match for the title.
// Word boundaries only make sense against word characters, so a title like
// "C++" gets no trailing \b - there is no boundary after '+'.
func titlePattern(title string) string {
	pattern := `(?i)`
	runes := []rune(title)
	if isWordRune(runes[0]) {
		pattern += `\b`
	}
	pattern += regexp.QuoteMeta(title)
	if isWordRune(runes[len(runes)-1]) {
		pattern += `\b`
	}
	return pattern
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// protectedRanges returns the [start, end) spans of existing anchor elements
// and bare tags, sorted by start since both regexps scan left to right.
func protectedRanges(content string) [][]int {
	ranges := anchorRe.FindAllStringIndex(content, -1)
	for _, tag := range tagRe.FindAllStringIndex(content, -1) {
		if !overlapsAny(ranges, tag[0], tag[1]) {
			ranges = append(ranges, tag)
		}
	}
	return ranges
}

func overlapsAny(ranges [][]int, start, end int) bool {
	for _, r := range ranges {
		if start < r[1] && end > r[0] {
			return true
		}
	}
	return false
}
