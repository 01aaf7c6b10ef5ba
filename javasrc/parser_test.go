package javasrc_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/annohint/javasrc"
)

func TestParser_ParseFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "A.java")
	require.NoError(t, os.WriteFile(path, []byte("@interface A {}"), 0o644))

	parser := javasrc.NewParser()
	defer parser.Close()

	f, err := parser.ParseFile(context.Background(), path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, path, f.Path)
	assert.False(t, f.HasErrors())
	assert.Equal(t, javasrc.TypeProgram, f.Root.Type())
}

func TestParser_ParseFile_Missing(t *testing.T) {
	t.Parallel()

	parser := javasrc.NewParser()
	defer parser.Close()

	_, err := parser.ParseFile(context.Background(), filepath.Join(t.TempDir(), "Nope.java"))

	var readErr *javasrc.FileReadError
	require.True(t, errors.As(err, &readErr))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParser_SyntaxErrors(t *testing.T) {
	t.Parallel()

	f := parse(t, "class C { void f( }")

	// Syntax errors yield a tree with error nodes rather than an error.
	assert.True(t, f.HasErrors())
	assert.NotNil(t, f.Root)
}
