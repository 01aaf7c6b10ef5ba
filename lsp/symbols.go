package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/annohint/analysis"
	"github.com/rlch/annohint/paraminfo"
)

// DocumentSymbol handles textDocument/documentSymbol requests.
// Returns the declared types of the document, nested types and annotation
// elements as children.
func (s *Server) DocumentSymbol(_ context.Context, params *protocol.DocumentSymbolParams) ([]any, error) {
	s.logger.Debug("DocumentSymbol",
		zap.String("uri", string(params.TextDocument.URI)))

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[params.TextDocument.URI]
	if !ok || doc.Analysis == nil || doc.Analysis.Decls == nil {
		return nil, nil
	}

	symbols := buildDocumentSymbols(doc.Analysis.Decls, "")

	// Convert to []any for the protocol
	result := make([]any, len(symbols))
	for i, sym := range symbols {
		result[i] = sym
	}

	return result, nil
}

// buildDocumentSymbols returns the symbols of the types directly inside outer.
func buildDocumentSymbols(decls *analysis.FileDecls, outer string) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol

	for _, t := range decls.Types {
		if t.Outer != outer {
			continue
		}

		sym := protocol.DocumentSymbol{
			Name:           t.Name,
			Detail:         t.Kind.String(),
			Kind:           symbolKind(t.Kind),
			Deprecated:     t.Deprecated,
			Range:          toRange(t.NameRange),
			SelectionRange: toRange(t.NameRange),
		}

		for _, el := range t.Elements {
			sym.Children = append(sym.Children, protocol.DocumentSymbol{
				Name:           el.Name + "()",
				Detail:         paraminfo.FormatLabel(el).Text,
				Kind:           protocol.SymbolKindMethod,
				Deprecated:     el.Deprecated,
				Range:          toRange(el.NameRange),
				SelectionRange: toRange(el.NameRange),
			})
		}

		sym.Children = append(sym.Children, buildDocumentSymbols(decls, t.QualifiedName)...)
		symbols = append(symbols, sym)
	}

	return symbols
}

func symbolKind(k analysis.Kind) protocol.SymbolKind {
	switch k {
	case analysis.KindClass, analysis.KindRecord:
		return protocol.SymbolKindClass
	case analysis.KindEnum:
		return protocol.SymbolKindEnum
	default:
		return protocol.SymbolKindInterface
	}
}
