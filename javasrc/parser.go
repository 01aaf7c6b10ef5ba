// Package javasrc provides the Java source tree used by annohint.
//
// It wraps tree-sitter and its Java grammar, and exposes the small set of
// tree queries parameter info needs: the leaf at an offset, the nearest
// ancestor of a given node type, node text, and offset/position conversion.
package javasrc

import (
	"context"
	"errors"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// Parser wraps a tree-sitter parser configured for Java.
// A Parser is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a Java parser.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(java.GetLanguage())

	return &Parser{parser: p}
}

// Parse parses source code and returns the tree.
func (p *Parser) Parse(ctx context.Context, source []byte) (*File, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &ParseError{Message: err.Error(), Err: err}
	}

	return &File{
		Tree:   tree,
		Root:   tree.RootNode(),
		Source: source,
	}, nil
}

// ParseFile parses a file from disk.
func (p *Parser) ParseFile(ctx context.Context, path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}

	f, err := p.Parse(ctx, source)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}

		return nil, err
	}

	f.Path = path

	return f, nil
}

// Close releases parser resources.
// After calling Close, the parser should not be used.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
}
