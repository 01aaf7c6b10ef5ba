package analysis_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/annohint"
	"github.com/rlch/annohint/analysis"
	"github.com/rlch/annohint/javasrc"
)

func newIndex(t *testing.T, sources map[string]string) *analysis.Index {
	t.Helper()

	ctx := context.Background()
	index := analysis.NewIndex(nil)

	parser := javasrc.NewParser()
	defer parser.Close()

	require.NoError(t, index.LoadBuiltins(ctx, parser))

	for path, src := range sources {
		require.NoError(t, index.IndexSource(ctx, parser, path, []byte(src)))
	}

	return index
}

func TestIndex_Resolve(t *testing.T) {
	t.Parallel()

	index := newIndex(t, map[string]string{
		"lib/Mark.java":   "package lib; public @interface Mark {}",
		"lib/Outer.java":  "package lib; public class Outer { public @interface Inner {} }",
		"p/Mark.java":     "package p; @interface Mark {}",
		"star/Mark.java":  "package star; public @interface Mark {}",
		"star/Only.java":  "package star; public @interface Only {}",
		"other/Mark.java": "package other; public @interface Mark {}",
		"Top.java":        "@interface Top {}",
	})

	local := &analysis.TypeDecl{Name: "Mark", QualifiedName: "p.Local.Mark", Outer: "p.Local", Kind: analysis.KindAnnotation}

	tests := []struct {
		name  string
		scope *analysis.FileDecls
		ref   string
		want  string
	}{
		{
			name:  "local declaration wins",
			scope: &analysis.FileDecls{Package: "p", Imports: []analysis.Import{{Name: "lib.Mark"}}, Types: []*analysis.TypeDecl{local}},
			ref:   "Mark",
			want:  "p.Local.Mark",
		},
		{
			name:  "single import beats same package",
			scope: &analysis.FileDecls{Package: "p", Imports: []analysis.Import{{Name: "lib.Mark"}}},
			ref:   "Mark",
			want:  "lib.Mark",
		},
		{
			name:  "same package beats on-demand import",
			scope: &analysis.FileDecls{Package: "p", Imports: []analysis.Import{{Name: "star", OnDemand: true}}},
			ref:   "Mark",
			want:  "p.Mark",
		},
		{
			name:  "on-demand import",
			scope: &analysis.FileDecls{Package: "q", Imports: []analysis.Import{{Name: "star", OnDemand: true}}},
			ref:   "Only",
			want:  "star.Only",
		},
		{
			name:  "java.lang",
			scope: &analysis.FileDecls{Package: "q"},
			ref:   "Deprecated",
			want:  "java.lang.Deprecated",
		},
		{
			name:  "fully qualified",
			scope: &analysis.FileDecls{Package: "p"},
			ref:   "other.Mark",
			want:  "other.Mark",
		},
		{
			name:  "qualified with whitespace",
			scope: &analysis.FileDecls{Package: "p"},
			ref:   "other . Mark",
			want:  "other.Mark",
		},
		{
			name:  "nested through import",
			scope: &analysis.FileDecls{Package: "q", Imports: []analysis.Import{{Name: "lib.Outer"}}},
			ref:   "Outer.Inner",
			want:  "lib.Outer.Inner",
		},
		{
			name:  "nested fully qualified",
			scope: &analysis.FileDecls{Package: "q"},
			ref:   "lib.Outer.Inner",
			want:  "lib.Outer.Inner",
		},
		{
			name:  "default package",
			scope: &analysis.FileDecls{},
			ref:   "Top",
			want:  "Top",
		},
		{
			name:  "nil scope",
			scope: nil,
			ref:   "Override",
			want:  "java.lang.Override",
		},
		{
			name:  "unknown",
			scope: &analysis.FileDecls{Package: "q"},
			ref:   "Nope",
		},
		{
			name:  "not imported",
			scope: &analysis.FileDecls{Package: "q"},
			ref:   "Only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := index.Resolve(tt.scope, tt.ref)
			if tt.want == "" {
				assert.Nil(t, got)

				return
			}

			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.QualifiedName)
		})
	}
}

func TestIndex_Builtins(t *testing.T) {
	t.Parallel()

	index := newIndex(t, nil)

	deprecated := index.Lookup("java.lang.Deprecated")
	require.NotNil(t, deprecated)
	assert.True(t, deprecated.Builtin)
	assert.True(t, strings.HasPrefix(deprecated.Path, analysis.BuiltinPathPrefix))

	target := index.Lookup("java.lang.annotation.Target")
	require.NotNil(t, target)
	require.NotNil(t, target.Element("value"))
	assert.Equal(t, "ElementType[]", target.Element("value").Type)

	// Enums are indexed but are not annotation types.
	elementType := index.Lookup("java.lang.annotation.ElementType")
	require.NotNil(t, elementType)
	assert.NotContains(t, index.Annotations(), elementType)
}

func TestIndex_UpdateAndRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	index := analysis.NewIndex(nil)

	parser := javasrc.NewParser()
	defer parser.Close()

	require.NoError(t, index.IndexSource(ctx, parser, "A.java", []byte("package a; @interface One {} @interface Two {}")))
	assert.Equal(t, 2, index.Len())

	// Re-indexing replaces the file's previous declarations.
	require.NoError(t, index.IndexSource(ctx, parser, "A.java", []byte("package a; @interface One { int v(); }")))
	assert.Nil(t, index.Lookup("a.Two"))
	require.NotNil(t, index.Lookup("a.One"))
	assert.Len(t, index.Lookup("a.One").Elements, 1)

	// A name redeclared by another file survives removal of the first.
	require.NoError(t, index.IndexSource(ctx, parser, "B.java", []byte("package a; @interface One {}")))
	index.RemoveFile("A.java")
	require.NotNil(t, index.Lookup("a.One"))
	assert.Equal(t, "B.java", index.Lookup("a.One").Path)

	index.RemoveFile("B.java")
	assert.Equal(t, 0, index.Len())
}

func TestIndex_IndexWorkspace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeJava := func(rel, content string) {
		t.Helper()

		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	writeJava("src/a/Route.java", "package a; public @interface Route { String path(); }")
	writeJava("src/a/Notes.txt", "not java")
	writeJava("src/build/Gen.java", "package build; public @interface Gen {}")
	writeJava("src/.cache/Hidden.java", "package cache; public @interface Hidden {}")
	writeJava("src/big/Big.java", "package big; public @interface Big {}\n"+strings.Repeat("// padding\n", 100))
	writeJava("lib/b/Tag.java", "package b; public @interface Tag {}")

	cfg := annohint.DefaultConfig(dir)
	cfg.SourceRoots = []string{"src", "lib", "missing"}
	cfg.MaxFileSize = 512

	index := analysis.NewIndex(nil)

	n, err := index.IndexWorkspace(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.NotNil(t, index.Lookup("a.Route"))
	assert.NotNil(t, index.Lookup("b.Tag"))
	assert.Nil(t, index.Lookup("build.Gen"), "excluded directory")
	assert.Nil(t, index.Lookup("cache.Hidden"), "hidden directory")
	assert.Nil(t, index.Lookup("big.Big"), "file over the size limit")
	assert.NotNil(t, index.Lookup("java.lang.Deprecated"), "builtins")
}

func TestIndex_IndexWorkspace_NoBuiltins(t *testing.T) {
	t.Parallel()

	disabled := false
	cfg := annohint.DefaultConfig(t.TempDir())
	cfg.Builtins = &disabled

	index := analysis.NewIndex(nil)

	n, err := index.IndexWorkspace(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, index.Len())
}

func TestIndex_IndexWorkspace_Canceled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A.java"), []byte("@interface A {}"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	disabled := false
	cfg := annohint.DefaultConfig(dir)
	cfg.Builtins = &disabled

	_, err := analysis.NewIndex(nil).IndexWorkspace(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}
