package vocabulary

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Term matches a literal phrase case-insensitively on word boundaries.
// Boundaries are letters only and Unicode-aware, so "kg" matches in "12kg" and
// "feu" does not match in "feué". An edge of the phrase that is not a letter
// (for example "€" or "Fl(2)") imposes no boundary.
type Term struct {
	Text string

	re         *regexp.Regexp
	leftBound  bool
	rightBound bool
}

// NewTerm compiles a Term for text.
func NewTerm(text string) Term {
	first, _ := utf8.DecodeRuneInString(text)
	last, _ := utf8.DecodeLastRuneInString(text)

	return Term{
		Text:       text,
		re:         regexp.MustCompile(`(?i)` + regexp.QuoteMeta(text)),
		leftBound:  unicode.IsLetter(first),
		rightBound: unicode.IsLetter(last),
	}
}

// Terms compiles a Term for each entry, preserving order.
func Terms(list []string) []Term {
	terms := make([]Term, len(list))
	for i, s := range list {
		terms[i] = NewTerm(s)
	}
	return terms
}

// Index returns the byte offsets of the first whole-word occurrence of the term in s.
func (t Term) Index(s string) (start, end int, ok bool) {
	for _, loc := range t.matches(s) {
		return loc[0], loc[1], true
	}
	return -1, -1, false
}

// IndexAll returns the byte offsets of every whole-word occurrence of the term in s.
func (t Term) IndexAll(s string) [][]int {
	return t.matches(s)
}

// In reports whether the term occurs in s as a whole word.
func (t Term) In(s string) bool {
	_, _, ok := t.Index(s)
	return ok
}

// Count returns the number of whole-word occurrences of the term in s.
func (t Term) Count(s string) int {
	return len(t.matches(s))
}

// Replace substitutes every whole-word occurrence of the term in s with repl.
func (t Term) Replace(s, repl string) string {
	locs := t.matches(s)
	if len(locs) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	prev := 0
	for _, loc := range locs {
		b.WriteString(s[prev:loc[0]])
		b.WriteString(repl)
		prev = loc[1]
	}
	b.WriteString(s[prev:])

	return b.String()
}

func (t Term) matches(s string) [][]int {
	candidates := t.re.FindAllStringIndex(s, -1)
	out := candidates[:0]
	for _, loc := range candidates {
		if t.bounded(s, loc[0], loc[1]) {
			out = append(out, loc)
		}
	}
	return out
}

func (t Term) bounded(s string, start, end int) bool {
	if t.leftBound && start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if unicode.IsLetter(r) {
			return false
		}
	}
	if t.rightBound && end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// ContainsFold reports whether lowered contains the lowercase form of entry.
// lowered must already be lowercased by the caller.
func ContainsFold(lowered, entry string) bool {
	return strings.Contains(lowered, strings.ToLower(entry))
}
