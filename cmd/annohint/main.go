// Package main provides the annohint CLI tool.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	err := newApp().Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "annohint",
		Version: version,
		Usage:   "Parameter info for Java annotations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log indexing progress to stderr",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable styled output",
			},
		},
		Commands: []*cli.Command{
			hintCommand(),
			elementsCommand(),
			previewCommand(),
		},
	}
}
