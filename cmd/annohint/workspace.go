package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rlch/annohint"
	"github.com/rlch/annohint/analysis"
	"github.com/rlch/annohint/javasrc"
)

var (
	errNoPosition    = errors.New("no position given (use --line and --col, or --offset)")
	errInvalidFormat = errors.New("invalid format (use text or yaml)")
)

// workspace is an indexed project together with one parsed file.
type workspace struct {
	cfg    *annohint.Config
	index  *analysis.Index
	logger *zap.Logger
}

func newLogger(cmd *cli.Command) *zap.Logger {
	if !cmd.Bool("verbose") {
		return zap.NewNop()
	}

	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}

	return logger
}

// openWorkspace loads the config governing dir and indexes its source roots.
func openWorkspace(ctx context.Context, cmd *cli.Command, dir string) (*workspace, error) {
	logger := newLogger(cmd)

	cfg, err := annohint.LoadConfig(dir)
	if errors.Is(err, annohint.ErrConfigNotFound) {
		abs, absErr := filepath.Abs(dir)
		if absErr != nil {
			return nil, absErr
		}

		cfg = annohint.DefaultConfig(abs)
	} else if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	index := analysis.NewIndex(logger)

	n, err := index.IndexWorkspace(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", cfg.Dir(), err)
	}

	logger.Debug("Indexed workspace",
		zap.String("dir", cfg.Dir()),
		zap.Int("files", n),
		zap.Int("types", index.Len()))

	return &workspace{cfg: cfg, index: index, logger: logger}, nil
}

// parseFile parses path and refreshes its declarations in the index, so
// unsaved edits outside the source roots are still visible.
func (w *workspace) parseFile(ctx context.Context, path string) (*javasrc.File, error) {
	parser := javasrc.NewParser()
	defer parser.Close()

	f, err := parser.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}

	w.index.Update(analysis.Extract(f))

	return f, nil
}

// caretOffset converts the --line/--col (1-based) or --offset flags to a
// byte offset in src.
func caretOffset(cmd *cli.Command, src []byte) (int, error) {
	if cmd.IsSet("offset") {
		offset := cmd.Int("offset")
		if offset < 0 || offset > len(src) {
			return 0, fmt.Errorf("offset %d out of range [0, %d]", offset, len(src))
		}

		return offset, nil
	}

	if !cmd.IsSet("line") {
		return 0, errNoPosition
	}

	pos := javasrc.Position{
		Line:      max(cmd.Int("line")-1, 0),
		Character: max(cmd.Int("col")-1, 0),
	}

	return javasrc.OffsetAt(src, pos), nil
}

func positionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "line",
			Aliases: []string{"l"},
			Usage:   "caret line (1-based)",
		},
		&cli.IntFlag{
			Name:    "col",
			Aliases: []string{"c"},
			Usage:   "caret column in UTF-16 units (1-based)",
			Value:   1,
		},
		&cli.IntFlag{
			Name:  "offset",
			Usage: "caret byte offset, instead of --line and --col",
		},
	}
}

func fileArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", fmt.Errorf("expected one file argument, got %d", cmd.Args().Len())
	}

	path := cmd.Args().First()

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}

	return path, nil
}
