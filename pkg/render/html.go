package render

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/walteh/papyruslex/pkg/document"
	"github.com/walteh/papyruslex/pkg/property"
	"github.com/walteh/papyruslex/pkg/semtok"
	"github.com/walteh/papyruslex/pkg/style"
)

type HTMLOptions struct {
	// Standalone wraps the listing in a complete page with a style sheet.
	Standalone bool
	Title      string
}

var cssColors = map[style.Style]string{
	style.Operator:         "color: #d4d4d4",
	style.FlowControl:      "color: #c586c0; font-weight: bold",
	style.Type:             "color: #4ec9b0",
	style.Keyword:          "color: #569cd6; font-weight: bold",
	style.Keyword2:         "color: #569cd6",
	style.FoldOpen:         "color: #c586c0",
	style.FoldMiddle:       "color: #c586c0",
	style.FoldClose:        "color: #c586c0",
	style.Comment:          "color: #6a9955",
	style.CommentMultiLine: "color: #6a9955",
	style.CommentDoc:       "color: #6a9955; font-style: italic",
	style.Number:           "color: #b5cea8",
	style.String:           "color: #ce9178",
	style.Property:         "color: #9cdcfe; text-decoration: underline",
	style.Class:            "color: #dcdcaa; text-decoration: underline",
	style.Function:         "color: #dcdcaa; text-decoration: underline",
}

// StyleSheet returns CSS rules for the classes HTML emits.
func StyleSheet() string {
	styles := make([]style.Style, 0, len(cssColors))
	for s := range cssColors {
		styles = append(styles, s)
	}
	sort.Slice(styles, func(i, j int) bool { return styles[i] < styles[j] })

	var sb strings.Builder
	sb.WriteString("pre.papyrus { background: #1e1e1e; color: #d4d4d4; }\n")
	for _, s := range styles {
		sb.WriteString("pre.papyrus ." + s.String() + " { " + cssColors[s] + "; }\n")
	}
	return sb.String()
}

// anchor is the fragment id shared by a hotspot's declaration and its
// references.
func anchor(s style.Style, name string) string {
	return s.String() + "-" + strings.ToLower(name)
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// HTML writes buf as a <pre class="papyrus"> listing. Each line is a span
// with id L<n>; styled text is a span classed with its style name. Hotspots
// become links: declarations carry the id that references point at.
func HTML(w io.Writer, buf *document.Buffer, props *property.Cache, opts HTMLOptions) error {
	pre := element(atom.Pre, "class", "papyrus")
	content := buf.Bytes()

	last := lastLine(buf)
	for line := 0; line <= last; line++ {
		span := element(atom.Span, "class", "line", "id", "L"+strconv.Itoa(line+1))
		pos := buf.LineStart(line)
		end := buf.LineEnd(line)

		for _, tok := range semtok.Tokens(buf, props, pos, end) {
			if tok.Range.Offset > pos {
				span.AppendChild(text(string(content[pos:tok.Range.Offset])))
			}

			s := buf.StyleAt(tok.Range.Offset)
			var n *html.Node
			switch {
			case s.IsHotspot() && tok.Modifier&semtok.ModifierDeclaration != 0:
				n = element(atom.A, "class", s.String()+" declaration", "id", anchor(s, tok.Range.Text))
			case s.IsHotspot():
				n = element(atom.A, "class", s.String(), "href", "#"+anchor(s, tok.Range.Text))
			default:
				n = element(atom.Span, "class", s.String())
			}
			n.AppendChild(text(tok.Range.Text))
			span.AppendChild(n)
			pos = tok.Range.End()
		}
		if pos < end {
			span.AppendChild(text(string(content[pos:end])))
		}

		pre.AppendChild(span)
		if line < last {
			pre.AppendChild(text("\n"))
		}
	}

	root := pre
	if opts.Standalone {
		root = page(pre, opts.Title)
	}
	if err := html.Render(w, root); err != nil {
		return errors.Errorf("rendering html: %w", err)
	}
	return nil
}

func page(body *html.Node, title string) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, "charset", "utf-8"))
	t := element(atom.Title)
	t.AppendChild(text(title))
	head.AppendChild(t)
	css := element(atom.Style)
	css.AppendChild(text(StyleSheet()))
	head.AppendChild(css)

	b := element(atom.Body)
	b.AppendChild(body)

	root.AppendChild(head)
	root.AppendChild(b)
	doc.AppendChild(root)
	return doc
}
