package paraminfo

import (
	"html"
	"strings"

	"github.com/rlch/annohint/analysis"
)

// Label is the rendered form of one annotation element.
type Label struct {
	// Text is the unescaped label, e.g. `String name() default "x"`.
	Text string

	// HighlightStart and HighlightEnd delimit the element name within
	// Escape(Text), the coordinate space markup renderers work in.
	HighlightStart int
	HighlightEnd   int

	Deprecated bool

	// nameStart and nameEnd delimit the element name within Text.
	nameStart int
	nameEnd   int
}

// Escape escapes the markup-sensitive characters &, <, >, " and '. Highlight
// offsets are measured with it, so external renderers must escape with it too.
func Escape(s string) string {
	return html.EscapeString(s)
}

// FormatLabel renders el as "Type name() default value". The highlight range
// is measured on the escaped prefix before and after appending the name, so
// it stays on the name even when the type contains escaped characters such as
// the angle brackets of a generic.
func FormatLabel(el *analysis.Element) Label {
	var b strings.Builder

	b.WriteString(el.Type)
	b.WriteString(" ")

	label := Label{
		HighlightStart: len(Escape(b.String())),
		nameStart:      b.Len(),
		Deprecated:     el.Deprecated,
	}

	b.WriteString(el.Name)

	label.HighlightEnd = len(Escape(b.String()))
	label.nameEnd = b.Len()

	b.WriteString("()")

	if el.HasDefault {
		b.WriteString(" default ")
		b.WriteString(el.Default)
	}

	label.Text = b.String()

	return label
}

// Escaped returns the escaped label text.
func (l Label) Escaped() string {
	return Escape(l.Text)
}

// Parts splits the unescaped text around the element name.
func (l Label) Parts() (before, name, after string) {
	return l.Text[:l.nameStart], l.Text[l.nameStart:l.nameEnd], l.Text[l.nameEnd:]
}

// Markup returns the escaped label with the name wrapped in <b> when
// highlighted, and the whole label in <s> when deprecated.
func (l Label) Markup(highlighted bool) string {
	escaped := l.Escaped()

	var b strings.Builder

	if l.Deprecated {
		b.WriteString("<s>")
	}

	b.WriteString(escaped[:l.HighlightStart])

	if highlighted {
		b.WriteString("<b>")
	}

	b.WriteString(escaped[l.HighlightStart:l.HighlightEnd])

	if highlighted {
		b.WriteString("</b>")
	}

	b.WriteString(escaped[l.HighlightEnd:])

	if l.Deprecated {
		b.WriteString("</s>")
	}

	return b.String()
}
