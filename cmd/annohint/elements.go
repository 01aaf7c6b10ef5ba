package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/rlch/annohint/analysis"
	"github.com/rlch/annohint/paraminfo"
)

func elementsCommand() *cli.Command {
	return &cli.Command{
		Name:      "elements",
		Aliases:   []string{"ls"},
		Usage:     "List the annotation types of a workspace and their elements",
		ArgsUsage: "[DIR]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format: text or yaml",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "builtins",
				Usage: "include the java.lang annotation types",
			},
			&cli.StringFlag{
				Name:  "filter",
				Usage: "only types whose qualified name contains this string",
			},
		},
		Action: runElements,
	}
}

// annotationDoc is the yaml form of an annotation type.
type annotationDoc struct {
	Name       string       `yaml:"name"`
	Path       string       `yaml:"path,omitempty"`
	Deprecated bool         `yaml:"deprecated,omitempty"`
	Doc        string       `yaml:"doc,omitempty"`
	Elements   []elementDoc `yaml:"elements"`
}

type elementDoc struct {
	Name       string  `yaml:"name"`
	Type       string  `yaml:"type"`
	Default    *string `yaml:"default,omitempty"`
	Deprecated bool    `yaml:"deprecated,omitempty"`
	Doc        string  `yaml:"doc,omitempty"`
}

func runElements(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	if format != "text" && format != "yaml" {
		return errInvalidFormat
	}

	dir := "."
	if cmd.Args().Present() {
		dir = cmd.Args().First()
	}

	ws, err := openWorkspace(ctx, cmd, dir)
	if err != nil {
		return err
	}

	var types []*analysis.TypeDecl

	for _, t := range ws.index.Annotations() {
		if t.Builtin && !cmd.Bool("builtins") {
			continue
		}

		if filter := cmd.String("filter"); filter != "" && !strings.Contains(t.QualifiedName, filter) {
			continue
		}

		types = append(types, t)
	}

	out := cmd.Root().Writer

	if format == "yaml" {
		return writeYAML(out, types)
	}

	return writeText(out, stylesFor(out, cmd.Root().Bool("no-color")), types)
}

func writeYAML(w io.Writer, types []*analysis.TypeDecl) error {
	docs := make([]annotationDoc, 0, len(types))

	for _, t := range types {
		doc := annotationDoc{
			Name:       t.QualifiedName,
			Path:       t.Path,
			Deprecated: t.Deprecated,
			Doc:        t.Doc,
			Elements:   make([]elementDoc, 0, len(t.Elements)),
		}

		for _, el := range t.Elements {
			ed := elementDoc{
				Name:       el.Name,
				Type:       el.Type,
				Deprecated: el.Deprecated,
				Doc:        el.Doc,
			}

			if el.HasDefault {
				ed.Default = &el.Default
			}

			doc.Elements = append(doc.Elements, ed)
		}

		docs = append(docs, doc)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(docs); err != nil {
		return err
	}

	return enc.Close()
}

func writeText(w io.Writer, styles *Styles, types []*analysis.TypeDecl) error {
	for i, t := range types {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		header := styles.Header.Render("@"+t.Name) + "  " + styles.Qualified.Render(t.QualifiedName)
		if t.Deprecated {
			header += "  " + styles.Warn.Render("deprecated")
		}

		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}

		if len(t.Elements) == 0 {
			if _, err := fmt.Fprintln(w, "  "+styles.Dim.Render("(no elements)")); err != nil {
				return err
			}

			continue
		}

		for _, el := range t.Elements {
			line := styles.renderLabel(paraminfo.ItemLabel{Element: el, Label: paraminfo.FormatLabel(el)})
			if _, err := fmt.Fprintln(w, "  "+line); err != nil {
				return err
			}
		}
	}

	return nil
}
