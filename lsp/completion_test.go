package lsp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

const completionSource = `package com.acme;

public @interface Route {
    String path();
    int priority() default 0;
}

class C {
    @Route()
    void a() {}

    @Route(path = "/", priority = 2)
    void b() {}
}
`

func TestServer_Completion(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	ctx := context.Background()
	uri := protocol.DocumentURI("file:///src/com/acme/C.java")
	openDocument(t, server, uri, completionSource)

	complete := func(needle string, delta int) []protocol.CompletionItem {
		result, err := server.Completion(ctx, &protocol.CompletionParams{
			TextDocumentPositionParams: protocol.TextDocumentPositionParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: uri},
				Position:     positionOf(t, completionSource, needle, delta),
			},
		})
		require.NoError(t, err)

		if result == nil {
			return nil
		}

		return result.Items
	}

	labels := func(items []protocol.CompletionItem) []string {
		var names []string
		for _, item := range items {
			names = append(names, item.Label)
		}

		return names
	}

	t.Run("empty argument list", func(t *testing.T) {
		items := complete("@Route()", 7)
		require.Equal(t, []string{"path", "priority"}, labels(items))
		assert.Equal(t, "path = ", items[0].InsertText)
		assert.Equal(t, "String path()", items[0].Detail)
		assert.Equal(t, "int priority() default 0", items[1].Detail)
	})

	t.Run("given elements are skipped", func(t *testing.T) {
		items := complete("priority = 2", 0)
		assert.Equal(t, []string{"priority"}, labels(items))
	})

	t.Run("value position", func(t *testing.T) {
		assert.Nil(t, complete("priority = 2", 11))
	})

	t.Run("outside annotation", func(t *testing.T) {
		assert.Nil(t, complete("void a", 0))
	})
}
