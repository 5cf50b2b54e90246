// Package wordlist holds the categorized, case-insensitive keyword sets the
// lexer classifies identifiers against.
package wordlist

import (
	"sort"
	"strings"
)

// Category identifies one of the configured word lists.
type Category int

const (
	Operators   Category = iota // instre1
	FlowControl                 // instre2
	Types                       // type1
	Keywords                    // type2
	Keywords2                   // type3
	FoldOpen                    // type4
	FoldMiddle                  // type5
	FoldClose                   // type6
)

// CategoryCount is the number of word list slots.
const CategoryCount = int(FoldClose) + 1

var categoryNames = [...]string{
	Operators:   "operators",
	FlowControl: "flow_control",
	Types:       "types",
	Keywords:    "keywords",
	Keywords2:   "keywords2",
	FoldOpen:    "fold_open",
	FoldMiddle:  "fold_middle",
	FoldClose:   "fold_close",
}

func (c Category) String() string {
	if c < 0 || int(c) >= CategoryCount {
		return "unknown"
	}
	return categoryNames[c]
}

// ParseCategory maps a config key to its category.
func ParseCategory(name string) (Category, bool) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), true
		}
	}
	return 0, false
}

// Set is the full group of word lists. A Set is read-only once handed to a
// lexer and may be shared between lexers of different documents.
type Set struct {
	lists [CategoryCount]map[string]struct{}
}

// New returns a Set with every list empty.
func New() *Set {
	s := &Set{}
	for i := range s.lists {
		s.lists[i] = map[string]struct{}{}
	}
	return s
}

// Add inserts words into a category. Each entry may hold several
// whitespace-separated words, the way editor word list text is written.
func (s *Set) Add(c Category, words ...string) {
	for _, entry := range words {
		for _, w := range strings.Fields(entry) {
			s.lists[c][strings.ToLower(w)] = struct{}{}
		}
	}
}

// Replace discards the category's current words and loads the given ones.
func (s *Set) Replace(c Category, words ...string) {
	s.lists[c] = map[string]struct{}{}
	s.Add(c, words...)
}

// Contains reports whether word is in category c, ignoring case.
func (s *Set) Contains(c Category, word string) bool {
	if s == nil {
		return false
	}
	_, ok := s.lists[c][lower(word)]
	return ok
}

// Words returns the sorted words of a category.
func (s *Set) Words(c Category) []string {
	out := make([]string, 0, len(s.lists[c]))
	for w := range s.lists[c] {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of words in a category.
func (s *Set) Len(c Category) int {
	return len(s.lists[c])
}

// Empty reports whether no category has any word.
func (s *Set) Empty() bool {
	for _, l := range s.lists {
		if len(l) > 0 {
			return false
		}
	}
	return true
}

// lower avoids an allocation for the common already-lowercase ASCII case.
func lower(w string) string {
	for i := 0; i < len(w); i++ {
		c := w[i]
		if c >= 'A' && c <= 'Z' || c >= 0x80 {
			return strings.ToLower(w)
		}
	}
	return w
}
