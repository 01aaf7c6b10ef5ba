package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/rlch/annohint/javasrc"
	"github.com/rlch/annohint/paraminfo"
)

var errNotTerminal = errors.New("preview needs an interactive terminal")

func previewCommand() *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Move a caret through a file and watch the parameter info popup follow it",
		ArgsUsage: "FILE",
		Flags:     positionFlags(),
		Action:    runPreview,
	}
}

func runPreview(ctx context.Context, cmd *cli.Command) error {
	path, err := fileArg(cmd)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer

	if !isTerminal(out) {
		return errNotTerminal
	}

	styles := stylesFor(out, cmd.Root().Bool("no-color"))

	ws, err := openWorkspace(ctx, cmd, filepath.Dir(path))
	if err != nil {
		return err
	}

	f, err := ws.parseFile(ctx, path)
	if err != nil {
		return err
	}
	defer f.Close()

	offset := 0
	if cmd.IsSet("line") || cmd.IsSet("offset") {
		offset, err = caretOffset(cmd, f.Source)
		if err != nil {
			return err
		}
	}

	model := newPreviewModel(f, paraminfo.NewProvider(ws.index), styles, offset)

	_, err = tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(out), tea.WithAltScreen()).Run()

	return err
}

type previewKeys struct {
	Left  key.Binding
	Right key.Binding
	Up    key.Binding
	Down  key.Binding
	Open  key.Binding
	Close key.Binding
	Quit  key.Binding
}

func (k previewKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Open, k.Close, k.Quit}
}

func (k previewKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultPreviewKeys() previewKeys {
	return previewKeys{
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:  key.NewBinding(key.WithKeys("enter", "p", "ctrl+@"), key.WithHelp("enter/p", "parameter info")),
		Close: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close popup")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// previewModel shows a window of the file with a caret and, while a session
// is open, the popup below the caret line.
type previewModel struct {
	file     *javasrc.File
	provider *paraminfo.Provider
	session  *paraminfo.Session
	styles   *Styles
	keys     previewKeys
	help     help.Model

	offset int
	width  int
	height int
}

func newPreviewModel(f *javasrc.File, provider *paraminfo.Provider, styles *Styles, offset int) *previewModel {
	m := &previewModel{
		file:     f,
		provider: provider,
		styles:   styles,
		keys:     defaultPreviewKeys(),
		help:     help.New(),
		offset:   offset,
		height:   24,
	}

	m.session = paraminfo.Open(provider, f, offset)

	return m
}

func (m *previewModel) Init() tea.Cmd {
	return nil
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { //nolint:ireturn // bubbletea.Model interface required by tea.Program
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Close):
			m.session = nil
		case key.Matches(msg, m.keys.Open):
			m.session = paraminfo.Open(m.provider, m.file, m.offset)
		case key.Matches(msg, m.keys.Left):
			m.moveTo(m.prevRune())
		case key.Matches(msg, m.keys.Right):
			m.moveTo(m.nextRune())
		case key.Matches(msg, m.keys.Up):
			m.moveLines(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveLines(1)
		}
	}

	return m, nil
}

// moveTo moves the caret and re-validates the open session.
func (m *previewModel) moveTo(offset int) {
	m.offset = max(0, min(offset, len(m.file.Source)))

	if m.session != nil && !m.session.Update(m.file, m.offset) {
		m.session = nil
	}
}

func (m *previewModel) prevRune() int {
	if m.offset == 0 {
		return 0
	}

	_, size := utf8.DecodeLastRune(m.file.Source[:m.offset])

	return m.offset - size
}

func (m *previewModel) nextRune() int {
	if m.offset >= len(m.file.Source) {
		return m.offset
	}

	_, size := utf8.DecodeRune(m.file.Source[m.offset:])

	return m.offset + size
}

func (m *previewModel) moveLines(delta int) {
	pos := m.file.PositionAt(m.offset)
	pos.Line = max(pos.Line+delta, 0)
	m.moveTo(m.file.OffsetAt(pos))
}

func (m *previewModel) View() string {
	lines := strings.Split(string(m.file.Source), "\n")
	caret := m.file.PositionAt(m.offset)

	popup := ""
	if m.session != nil {
		popup = m.styles.Popup.Render(m.styles.renderPopup(m.session))
	}

	// Source window height, leaving room for the popup and help.
	window := max(m.height-strings.Count(popup, "\n")-4, 3)
	start := max(0, min(caret.Line-window/2, len(lines)-window))
	end := min(len(lines), start+window)

	var b strings.Builder

	for i := start; i < end; i++ {
		line := lines[i]
		if i == caret.Line {
			line = m.renderCaretLine(line, caret.Character)
		}

		b.WriteString(m.styles.Dim.Render(padLineNumber(i+1, end)))
		b.WriteString(" ")
		b.WriteString(line)
		b.WriteString("\n")

		if i == caret.Line && popup != "" {
			b.WriteString(popup)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// renderCaretLine highlights the character under the caret. character is in
// UTF-16 units.
func (m *previewModel) renderCaretLine(line string, character int) string {
	i := javasrc.OffsetAt([]byte(line), javasrc.Position{Character: character})
	if i >= len(line) {
		return line + m.styles.Caret.Render(" ")
	}

	_, size := utf8.DecodeRuneInString(line[i:])

	return line[:i] + m.styles.Caret.Render(line[i:i+size]) + line[i+size:]
}

func padLineNumber(n, last int) string {
	return fmt.Sprintf("%*d", len(strconv.Itoa(last)), n)
}
