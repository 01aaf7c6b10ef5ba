package lsp_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"github.com/rlch/annohint/lsp"
)

func TestServer_Symbols(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "com", "acme", "Route.java")
	writeFile(t, path, routeSource)

	server, _ := newWorkspaceServer(t, root)
	ctx := context.Background()

	t.Run("annotation type", func(t *testing.T) {
		result, err := server.Symbols(ctx, &protocol.WorkspaceSymbolParams{Query: "rou"})
		require.NoError(t, err)
		require.Len(t, result, 1)

		assert.Equal(t, "Route", result[0].Name)
		assert.Equal(t, protocol.SymbolKindInterface, result[0].Kind)
		assert.Equal(t, "com.acme", result[0].ContainerName)
		assert.Equal(t, lsp.PathToURI(path), result[0].Location.URI)
	})

	t.Run("element", func(t *testing.T) {
		result, err := server.Symbols(ctx, &protocol.WorkspaceSymbolParams{Query: "METHODS"})
		require.NoError(t, err)
		require.Len(t, result, 1)

		assert.Equal(t, "methods()", result[0].Name)
		assert.Equal(t, "com.acme.Route", result[0].ContainerName)
		assert.True(t, result[0].Deprecated)
	})

	t.Run("builtins are not listed", func(t *testing.T) {
		result, err := server.Symbols(ctx, &protocol.WorkspaceSymbolParams{Query: "Deprecated"})
		require.NoError(t, err)
		assert.Empty(t, result)
	})
}

func TestServer_DocumentSymbol(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	ctx := context.Background()
	uri := protocol.DocumentURI("file:///src/com/acme/Route.java")
	openDocument(t, server, uri, routeSource)

	result, err := server.DocumentSymbol(ctx, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.Len(t, result, 2)

	route, ok := result[0].(protocol.DocumentSymbol)
	require.True(t, ok)
	assert.Equal(t, "Route", route.Name)
	assert.Equal(t, "@interface", route.Detail)

	var children []string
	for _, child := range route.Children {
		children = append(children, child.Detail)
	}

	assert.Equal(t, []string{
		"String path()",
		"int priority() default 0",
		"String[] methods() default {}",
	}, children)

	controller, ok := result[1].(protocol.DocumentSymbol)
	require.True(t, ok)
	assert.Equal(t, "Controller", controller.Name)
	assert.Equal(t, protocol.SymbolKindClass, controller.Kind)
}
