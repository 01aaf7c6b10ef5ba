package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/rlch/annohint/paraminfo"
)

func hintCommand() *cli.Command {
	return &cli.Command{
		Name:      "hint",
		Usage:     "Show the parameter info popup at a caret position",
		ArgsUsage: "FILE",
		Flags: append(positionFlags(),
			&cli.BoolFlag{
				Name:  "markup",
				Usage: "print escaped labels with <b> and <s> markup",
			},
			&cli.BoolFlag{
				Name:    "doc",
				Aliases: []string{"d"},
				Usage:   "print the documentation of the highlighted element",
			},
		),
		Action: runHint,
	}
}

func runHint(ctx context.Context, cmd *cli.Command) error {
	path, err := fileArg(cmd)
	if err != nil {
		return err
	}

	ws, err := openWorkspace(ctx, cmd, filepath.Dir(path))
	if err != nil {
		return err
	}

	f, err := ws.parseFile(ctx, path)
	if err != nil {
		return err
	}
	defer f.Close()

	offset, err := caretOffset(cmd, f.Source)
	if err != nil {
		return err
	}

	provider := paraminfo.NewProvider(ws.index)

	session := paraminfo.Open(provider, f, offset)
	if session == nil {
		pos := f.PositionAt(offset)

		return cli.Exit(fmt.Sprintf("%s:%d:%d: no annotation parameter info", path, pos.Line+1, pos.Character+1), 1)
	}

	out := cmd.Root().Writer

	if cmd.Bool("markup") {
		return writeMarkup(out, session)
	}

	styles := stylesFor(out, cmd.Root().Bool("no-color"))

	_, err = fmt.Fprintln(out, styles.renderPopup(session))
	if err != nil {
		return err
	}

	if cmd.Bool("doc") {
		if doc := provider.DocumentationFor(session.Highlighted); doc != "" {
			_, err = fmt.Fprintf(out, "\n%s\n", styles.Doc.Render(doc))
		}
	}

	return err
}

// writeMarkup prints one marked-up label per line, the way a popup renderer
// receives them.
func writeMarkup(w io.Writer, session *paraminfo.Session) error {
	for _, item := range session.Labels() {
		if _, err := fmt.Fprintln(w, item.Label.Markup(item.Active)); err != nil {
			return err
		}
	}

	return nil
}
