package lsp

import (
	"context"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/annohint/analysis"
	"github.com/rlch/annohint/paraminfo"
)

// Hover handles textDocument/hover requests.
func (s *Server) Hover(_ context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	s.logger.Debug("Hover",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, f, ok := s.parsedDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	target := targetAt(doc.Analysis, f.OffsetAt(fromPosition(params.Position)))
	if target == nil {
		return nil, nil //nolint:nilnil
	}

	var content string
	if target.Element != nil {
		content = s.hoverElement(target.Element)
	} else {
		content = s.hoverType(target.Type)
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: content,
		},
		Range: rangePtr(toRange(target.Range)),
	}, nil
}

// hoverElement shows the element label, the owning type and its javadoc.
func (s *Server) hoverElement(el *analysis.Element) string {
	var b strings.Builder

	b.WriteString(markdownCodeBlock(paraminfo.FormatLabel(el).Text))
	fmt.Fprintf(&b, "\n\nElement of `@%s`", el.Owner)

	if el.Deprecated {
		b.WriteString("\n\n**Deprecated**")
	}

	if doc := s.provider.DocumentationFor(el); doc != "" {
		b.WriteString("\n\n")
		b.WriteString(doc)
	}

	return b.String()
}

// hoverType shows the declaration header, its elements and its javadoc.
func (s *Server) hoverType(t *analysis.TypeDecl) string {
	var code strings.Builder

	fmt.Fprintf(&code, "%s %s", t.Kind, t.QualifiedName)

	if t.IsAnnotation() && len(t.Elements) > 0 {
		code.WriteString(" {")

		for _, el := range t.Elements {
			code.WriteString("\n    ")
			code.WriteString(paraminfo.FormatLabel(el).Text)
			code.WriteString(";")
		}

		code.WriteString("\n}")
	}

	var b strings.Builder

	b.WriteString(markdownCodeBlock(code.String()))

	if t.Deprecated {
		b.WriteString("\n\n**Deprecated**")
	}

	if t.Doc != "" {
		b.WriteString("\n\n")
		b.WriteString(t.Doc)
	}

	return b.String()
}

func markdownCodeBlock(code string) string {
	return "```java\n" + code + "\n```"
}
