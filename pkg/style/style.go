/*
Package style defines the styling taxonomy produced by the lexer.

Style IDs are ordinals: a color theme maps them by number, so the order of
the constants below is part of the contract with the host and must never change.

	 0 Default        6 FoldOpen        12 Number
	 1 Operator       7 FoldMiddle      13 String
	 2 FlowControl    8 FoldClose       14 Property  (hotspot)
	 3 Type           9 Comment         15 Class     (hotspot)
	 4 Keyword       10 CommentMultiLine 16 Function (hotspot)
	 5 Keyword2      11 CommentDoc
*/
package style

import "strings"

// Style is the per-character style tag written to the host document.
type Style int

const (
	Default Style = iota
	Operator
	FlowControl
	Type
	Keyword
	Keyword2
	FoldOpen
	FoldMiddle
	FoldClose
	Comment
	CommentMultiLine
	CommentDoc
	Number
	String
	Property
	Class
	Function
)

// Count is the number of defined styles.
const Count = int(Function) + 1

var names = [...]string{
	Default:          "default",
	Operator:         "operator",
	FlowControl:      "flow_control",
	Type:             "type",
	Keyword:          "keyword",
	Keyword2:         "keyword2",
	FoldOpen:         "fold_open",
	FoldMiddle:       "fold_middle",
	FoldClose:        "fold_close",
	Comment:          "comment",
	CommentMultiLine: "comment_multiline",
	CommentDoc:       "comment_doc",
	Number:           "number",
	String:           "string",
	Property:         "property",
	Class:            "class",
	Function:         "function",
}

func (s Style) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return names[s]
}

// Valid reports whether s is one of the defined styles.
func (s Style) Valid() bool {
	return s >= Default && s <= Function
}

// IsComment reports whether s is any of the comment styles.
func (s Style) IsComment() bool {
	return s == Comment || s == CommentMultiLine || s == CommentDoc
}

// IsHotspot reports whether runs of this style are clickable in the host UI.
// Navigation itself is handled by the host.
func (s Style) IsHotspot() bool {
	return s == Property || s == Class || s == Function
}

// Parse returns the style with the given name, ignoring case.
func Parse(name string) (Style, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range names {
		if n == name {
			return Style(i), true
		}
	}
	return Default, false
}

// All returns every style in ordinal order.
func All() []Style {
	out := make([]Style, Count)
	for i := range out {
		out[i] = Style(i)
	}
	return out
}
