package lsp

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/annohint/analysis"
	"github.com/rlch/annohint/javasrc"
)

// symbolTarget is the declaration a name under the cursor refers to.
type symbolTarget struct {
	// Type is the referenced annotation type, or the type owning Element.
	Type *analysis.TypeDecl

	// Element is set when the name is the key of a name-value pair.
	Element *analysis.Element

	// Usage is the annotation usage the name belongs to.
	Usage *sitter.Node

	// Range covers the name in the document.
	Range javasrc.Range
}

// Definition handles textDocument/definition requests.
// Jumps from an annotation name to its type declaration and from a pair name
// to the element declaration.
func (s *Server) Definition(_ context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error) {
	s.logger.Debug("Definition",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, f, ok := s.parsedDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	target := targetAt(doc.Analysis, f.OffsetAt(fromPosition(params.Position)))
	if target == nil {
		return nil, nil
	}

	path, rng := target.Type.Path, target.Type.NameRange
	if target.Element != nil {
		path, rng = target.Element.Path, target.Element.NameRange
	}

	// Builtins have no file to jump to.
	if path == "" || strings.HasPrefix(path, analysis.BuiltinPathPrefix) {
		return nil, nil
	}

	return []protocol.Location{{
		URI:   PathToURI(path),
		Range: toRange(rng),
	}}, nil
}

// targetAt resolves the name at offset: the key of a name-value pair, or the
// name of an annotation usage.
func targetAt(af *analysis.AnalyzedFile, offset int) *symbolTarget {
	f := af.File

	for n := f.LeafAt(offset); n != nil; n = n.Parent() {
		parent := n.Parent()
		if parent == nil {
			return nil
		}

		switch {
		case parent.Type() == javasrc.TypeElementValuePair && javasrc.SameNode(n, parent.ChildByFieldName("key")):
			usage := javasrc.ParentOfType(parent, javasrc.TypeAnnotation)

			t := af.Resolve(analysis.AnnotationName(f, usage))

			el := t.Element(f.Text(n))
			if el == nil {
				return nil
			}

			return &symbolTarget{Type: t, Element: el, Usage: usage, Range: f.NodeRange(n)}

		case analysis.IsAnnotationUsage(parent) && javasrc.SameNode(n, analysis.AnnotationNameNode(parent)):
			t := af.Resolve(analysis.AnnotationName(f, parent))
			if t == nil {
				return nil
			}

			return &symbolTarget{Type: t, Usage: parent, Range: f.NodeRange(n)}
		}
	}

	return nil
}
