// Package render prints lexed documents with their styles, as ANSI escapes
// for a terminal or as HTML.
package render

import (
	"github.com/apparentlymart/go-textseg/v13/textseg"
	"github.com/fatih/color"

	"github.com/walteh/papyruslex/pkg/document"
	"github.com/walteh/papyruslex/pkg/style"
)

// DefaultTabWidth is used when no .editorconfig sets one.
const DefaultTabWidth = 4

// Theme maps styles to terminal attributes. Styles without an entry print
// unstyled.
type Theme map[style.Style][]color.Attribute

func DefaultTheme() Theme {
	return Theme{
		style.Operator:         {color.FgHiWhite},
		style.FlowControl:      {color.FgMagenta, color.Bold},
		style.Type:             {color.FgCyan},
		style.Keyword:          {color.FgBlue, color.Bold},
		style.Keyword2:         {color.FgBlue},
		style.FoldOpen:         {color.FgMagenta},
		style.FoldMiddle:       {color.FgMagenta},
		style.FoldClose:        {color.FgMagenta},
		style.Comment:          {color.FgHiBlack},
		style.CommentMultiLine: {color.FgHiBlack},
		style.CommentDoc:       {color.FgHiBlack, color.Italic},
		style.Number:           {color.FgYellow},
		style.String:           {color.FgGreen},
		style.Property:         {color.FgHiCyan, color.Underline},
		style.Class:            {color.FgHiYellow, color.Underline},
		style.Function:         {color.FgHiGreen, color.Underline},
	}
}

// lastLine is the index of the last line worth printing: a document ending
// in a newline has an empty final line that is dropped.
func lastLine(buf *document.Buffer) int {
	last := buf.LineCount() - 1
	if last > 0 && buf.LineStart(last) >= buf.Length() {
		last--
	}
	return last
}

// expandTabs replaces tabs in s with spaces up to the next tab stop. col is
// the display column s starts at; the column after s is returned. Columns
// advance by grapheme cluster.
func expandTabs(s string, col, width int) (string, int) {
	if width <= 0 {
		width = DefaultTabWidth
	}
	out := make([]byte, 0, len(s))
	data := []byte(s)
	for len(data) > 0 {
		adv, cluster, err := textseg.ScanGraphemeClusters(data, true)
		if err != nil || adv == 0 {
			adv, cluster = 1, data[:1]
		}
		if len(cluster) == 1 && cluster[0] == '\t' {
			n := width - col%width
			for i := 0; i < n; i++ {
				out = append(out, ' ')
			}
			col += n
		} else {
			out = append(out, cluster...)
			col++
		}
		data = data[adv:]
	}
	return string(out), col
}
