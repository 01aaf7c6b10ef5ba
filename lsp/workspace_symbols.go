package lsp

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/annohint/analysis"
)

// Symbols handles workspace/symbol requests.
// Searches the index for annotation types and their elements whose names
// contain the query, case-insensitively.
func (s *Server) Symbols(_ context.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	s.logger.Debug("Symbols",
		zap.String("query", params.Query))

	var symbols []protocol.SymbolInformation
	query := strings.ToLower(params.Query)

	for _, t := range s.index.Annotations() {
		// Builtins have no location to show.
		if t.Builtin {
			continue
		}

		symbols = append(symbols, annotationSymbols(t, query)...)
	}

	return symbols, nil
}

// annotationSymbols returns the symbols of an annotation type matching query.
func annotationSymbols(t *analysis.TypeDecl, query string) []protocol.SymbolInformation {
	var symbols []protocol.SymbolInformation

	uri := PathToURI(t.Path)

	if matchesQuery(t.Name, query) || matchesQuery(t.QualifiedName, query) {
		symbols = append(symbols, protocol.SymbolInformation{
			Name:          t.Name,
			Kind:          protocol.SymbolKindInterface,
			Deprecated:    t.Deprecated,
			ContainerName: containerOf(t),
			Location: protocol.Location{
				URI:   uri,
				Range: toRange(t.NameRange),
			},
		})
	}

	for _, el := range t.Elements {
		if !matchesQuery(el.Name, query) {
			continue
		}

		symbols = append(symbols, protocol.SymbolInformation{
			Name:          el.Name + "()",
			Kind:          protocol.SymbolKindMethod,
			Deprecated:    el.Deprecated,
			ContainerName: t.QualifiedName,
			Location: protocol.Location{
				URI:   uri,
				Range: toRange(el.NameRange),
			},
		})
	}

	return symbols
}

func matchesQuery(name, query string) bool {
	return query == "" || strings.Contains(strings.ToLower(name), query)
}

// containerOf returns the enclosing type or package of t.
func containerOf(t *analysis.TypeDecl) string {
	if t.Outer != "" {
		return t.Outer
	}

	return t.Package
}
