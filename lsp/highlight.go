package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/annohint/analysis"
)

// DocumentHighlight handles textDocument/documentHighlight requests.
// On an annotation name, highlights every usage of the same annotation type in
// the document; on a pair name, every pair naming the same element. A
// declaration in the same document is highlighted as a write.
func (s *Server) DocumentHighlight(_ context.Context, params *protocol.DocumentHighlightParams) ([]protocol.DocumentHighlight, error) {
	s.logger.Debug("DocumentHighlight",
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

	var highlights []protocol.DocumentHighlight

	// Declaration in this document
	declPath, declRange := target.Type.Path, target.Type.NameRange
	if target.Element != nil {
		declPath, declRange = target.Element.Path, target.Element.NameRange
	}

	if declPath == doc.Analysis.Path {
		highlights = append(highlights, protocol.DocumentHighlight{
			Range: toRange(declRange),
			Kind:  protocol.DocumentHighlightKindWrite,
		})
	}

	for _, usage := range doc.Analysis.Usages() {
		t := doc.Analysis.Resolve(analysis.AnnotationName(f, usage))
		if t == nil || t.QualifiedName != target.Type.QualifiedName {
			continue
		}

		if target.Element == nil {
			highlights = append(highlights, protocol.DocumentHighlight{
				Range: toRange(f.NodeRange(analysis.AnnotationNameNode(usage))),
				Kind:  protocol.DocumentHighlightKindRead,
			})

			continue
		}

		for _, pair := range analysis.Pairs(f, usage) {
			if pair.Implicit() || pair.Name != target.Element.Name {
				continue
			}

			highlights = append(highlights, protocol.DocumentHighlight{
				Range: toRange(f.NodeRange(pair.Key)),
				Kind:  protocol.DocumentHighlightKindRead,
			})
		}
	}

	return highlights, nil
}
