package javasrc_test

import (
	"context"
	"strings"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/annohint/javasrc"
)

const fileSource = `@Route(path = "/a", priority = 1)
class C {}
`

func parse(t *testing.T, src string) *javasrc.File {
	t.Helper()

	parser := javasrc.NewParser()
	defer parser.Close()

	f, err := parser.Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	t.Cleanup(f.Close)

	return f
}

func TestFile_LeafAt(t *testing.T) {
	t.Parallel()

	f := parse(t, fileSource)

	tests := []struct {
		name     string
		offset   int
		wantType string
		wantText string
	}{
		{"at sign", 0, "@", "@"},
		{"annotation name", 2, "identifier", "Route"},
		{"pair key", strings.Index(fileSource, "path"), "identifier", "path"},
		{"comma", strings.Index(fileSource, ","), ",", ","},
		{"inside string", strings.Index(fileSource, "/a"), "", ""},
		{"space between tokens", strings.Index(fileSource, " ="), "element_value_pair", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			leaf := f.LeafAt(tt.offset)
			require.NotNil(t, leaf)

			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, leaf.Type())
			}

			if tt.wantText != "" {
				assert.Equal(t, tt.wantText, f.Text(leaf))
			}
		})
	}

	assert.Nil(t, f.LeafAt(-1))
	assert.Nil(t, f.LeafAt(len(fileSource)))
}

func TestFile_ElementAt(t *testing.T) {
	t.Parallel()

	f := parse(t, fileSource)

	// On whitespace the preceding token is used.
	afterKey := strings.Index(fileSource, "path") + len("path")
	el := f.ElementAt(afterKey)
	require.NotNil(t, el)
	assert.Equal(t, "path", f.Text(el))

	// Past the end the last token is used.
	el = f.ElementAt(len(fileSource))
	require.NotNil(t, el)
	assert.Equal(t, "}", f.Text(el))

	assert.Nil(t, f.ElementAt(-1))

	blank := parse(t, "   \n")
	assert.Nil(t, blank.ElementAt(2))
}

func TestFile_FindParentOfType(t *testing.T) {
	t.Parallel()

	f := parse(t, fileSource)

	offset := strings.Index(fileSource, "priority")

	pair := f.FindParentOfType(offset, javasrc.TypeElementValuePair)
	require.NotNil(t, pair)
	assert.Equal(t, "priority = 1", f.Text(pair))

	annotation := f.FindParentOfType(offset, javasrc.TypeAnnotation, javasrc.TypeMarkerAnnotation)
	require.NotNil(t, annotation)
	assert.Equal(t, 0, int(annotation.StartByte()))

	classBody := strings.Index(fileSource, "{}")
	assert.Nil(t, f.FindParentOfType(classBody, javasrc.TypeAnnotation))
}

func TestFile_Walk(t *testing.T) {
	t.Parallel()

	f := parse(t, fileSource)

	var pairs []string

	f.Walk(func(n *sitter.Node) bool {
		if n.Type() == javasrc.TypeElementValuePair {
			pairs = append(pairs, f.Text(n.ChildByFieldName("key")))

			return false
		}

		return true
	})

	assert.Equal(t, []string{"path", "priority"}, pairs)
}

func TestShift(t *testing.T) {
	t.Parallel()

	src := []byte("a,  \t)b")

	assert.Equal(t, 5, javasrc.ShiftForward(src, 2, " \t"))
	assert.Equal(t, 2, javasrc.ShiftForward(src, 2, ""))
	assert.Equal(t, len(src), javasrc.ShiftForward(src, 6, "b"))

	assert.Equal(t, 1, javasrc.ShiftBackward(src, 4, " \t"))
	assert.Equal(t, 6, javasrc.ShiftBackward(src, 100, " \t"))
	assert.Equal(t, -1, javasrc.ShiftBackward([]byte("   "), 2, " "))
}
