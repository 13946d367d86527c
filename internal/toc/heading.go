// Package toc builds the table of contents of a post and tracks which of its
// headings is currently in view.
package toc

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Level is a heading level.
type Level int

const (
	H2 Level = 2
	H3 Level = 3
)

func (l Level) String() string { return "h" + strconv.Itoa(int(l)) }

// ParseLevel maps a tag name such as "h3" to its Level.
func ParseLevel(tag string) (Level, error) {
	tag = strings.ToLower(tag)
	if len(tag) != 2 || tag[0] != 'h' || tag[1] < '1' || tag[1] > '6' {
		return 0, fmt.Errorf("toc: %q is not a heading tag", tag)
	}
	return Level(tag[1] - '0'), nil
}

// Heading is one section anchor, in document order.
type Heading struct {
	ID    string
	Level Level
	Text  string
	Index int
}

// GenerateID derives an anchor id from heading text. The text is lower-cased
// and trimmed, runes other than ASCII word characters, whitespace, Hangul
// syllables and '-' are dropped, and whitespace runs become a single '-'.
// An empty result falls back to "heading-<index>".
func GenerateID(text string, index int) string {
	text = strings.TrimSpace(strings.ToLower(text))

	// Dropped runes do not end a whitespace run: "Q & A" is "q-a".
	var b strings.Builder
	inSpace := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if !inSpace {
				b.WriteByte('-')
			}
			inSpace = true
		case keepRune(r):
			b.WriteRune(r)
			inSpace = false
		}
	}
	if b.Len() == 0 {
		return "heading-" + strconv.Itoa(index)
	}
	return b.String()
}

func keepRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	case r >= 0xAC00 && r <= 0xD7A3:
		return true
	}
	return false
}

// AssignIDs gives every heading a unique, non-empty id. Existing ids are
// claimed first, in order; missing ids are generated from the text. Any id
// already taken gets the first free "-N" suffix, starting at 1.
func AssignIDs(headings []Heading) {
	used := make(map[string]bool, len(headings))
	claim := func(id string) string {
		if !used[id] {
			used[id] = true
			return id
		}
		for n := 1; ; n++ {
			cand := id + "-" + strconv.Itoa(n)
			if !used[cand] {
				used[cand] = true
				return cand
			}
		}
	}

	for i := range headings {
		if headings[i].ID != "" {
			headings[i].ID = claim(headings[i].ID)
		}
	}
	for i := range headings {
		if headings[i].ID == "" {
			headings[i].ID = claim(GenerateID(headings[i].Text, headings[i].Index))
		}
	}
}

// ActiveIndex returns the index of the last heading whose top is at or above
// scrollPosition, scanning from the bottom, or -1 when none qualifies. tops
// must be in document order.
func ActiveIndex(tops []float64, scrollPosition float64) int {
	for i := len(tops) - 1; i >= 0; i-- {
		if scrollPosition >= tops[i] {
			return i
		}
	}
	return -1
}
