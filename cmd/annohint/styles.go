package main

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/rlch/annohint/paraminfo"
)

var (
	colorAccent = lipgloss.Color("#3b82f6") // blue-500
	colorType   = lipgloss.Color("#06b6d4") // cyan-500
	colorWarn   = lipgloss.Color("#eab308") // yellow-500
	colorError  = lipgloss.Color("#ef4444") // red-500
	colorDim    = lipgloss.Color("#6b7280") // gray-500
	colorBorder = lipgloss.Color("#374151") // gray-700
)

// Styles holds the lipgloss styles of the CLI output.
type Styles struct {
	Header    lipgloss.Style
	Qualified lipgloss.Style
	Label     lipgloss.Style
	Active    lipgloss.Style
	Obsolete  lipgloss.Style
	Doc       lipgloss.Style
	Warn      lipgloss.Style
	Error     lipgloss.Style
	Dim       lipgloss.Style
	Caret     lipgloss.Style
	Popup     lipgloss.Style

	SymbolPointer string
}

// DefaultStyles returns colored styles.
func DefaultStyles() *Styles {
	return &Styles{
		Header:    lipgloss.NewStyle().Foreground(colorType).Bold(true),
		Qualified: lipgloss.NewStyle().Foreground(colorDim),
		Label:     lipgloss.NewStyle(),
		Active:    lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		Obsolete:  lipgloss.NewStyle().Strikethrough(true),
		Doc:       lipgloss.NewStyle().Foreground(colorDim).Italic(true),
		Warn:      lipgloss.NewStyle().Foreground(colorWarn),
		Error:     lipgloss.NewStyle().Foreground(colorError).Bold(true),
		Dim:       lipgloss.NewStyle().Foreground(colorDim),
		Caret:     lipgloss.NewStyle().Reverse(true),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),

		SymbolPointer: "❯",
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()

	return &Styles{
		Header:    plain,
		Qualified: plain,
		Label:     plain,
		Active:    plain,
		Obsolete:  plain,
		Doc:       plain,
		Warn:      plain,
		Error:     plain,
		Dim:       plain,
		Caret:     plain,
		Popup:     plain,

		SymbolPointer: ">",
	}
}

// stylesFor picks colored styles only when w is a terminal.
func stylesFor(w io.Writer, noColor bool) *Styles {
	if !noColor && isTerminal(w) {
		return DefaultStyles()
	}

	return PlainStyles()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

// renderLabel renders one item, the name emphasized when it is active.
func (s *Styles) renderLabel(item paraminfo.ItemLabel) string {
	before, name, after := item.Label.Parts()

	base := s.Label
	nameStyle := s.Label

	if item.Active {
		nameStyle = s.Active
	}

	if item.Label.Deprecated {
		base = s.Obsolete
		nameStyle = nameStyle.Inherit(s.Obsolete)
	}

	return base.Render(before) + nameStyle.Render(name) + base.Render(after)
}

// renderPopup renders the header line and one line per item.
func (s *Styles) renderPopup(session *paraminfo.Session) string {
	var b strings.Builder

	b.WriteString(s.Header.Render("@" + session.Type.Name))
	b.WriteString("  ")
	b.WriteString(s.Qualified.Render(session.Type.QualifiedName))

	for _, item := range session.Labels() {
		b.WriteString("\n")

		if item.Active {
			b.WriteString(s.Active.Render(s.SymbolPointer))
		} else {
			b.WriteString(" ")
		}

		b.WriteString(" ")
		b.WriteString(s.renderLabel(item))
	}

	return b.String()
}
