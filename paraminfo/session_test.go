package paraminfo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/annohint/paraminfo"
)

const sessionDecl = `@interface Foo {
    int a();
    String b() default "x";
    @Deprecated
    long c() default 0L;
}

@interface Bar { int n(); }

`

func TestSession_Lifecycle(t *testing.T) {
	t.Parallel()

	p := newProvider(t, nil)

	f, offset := parse(t, sessionDecl+`@Foo(<caret>) class C {}`)

	s := paraminfo.Open(p, f, offset)
	require.NotNil(t, s)
	assert.Equal(t, "Foo", s.Type.Name)
	assert.Len(t, s.Items, 3)
	assert.Nil(t, s.Highlighted)
	assert.Equal(t, -1, s.Active())
	assert.Equal(t, paraminfo.DefaultCloseChars, s.CloseChars())

	anchor := s.Anchor

	// The user types an argument; the file is reparsed.
	f, offset = parse(t, sessionDecl+`@Foo(a = 1, b = "y<caret>") class C {}`)

	require.True(t, s.Update(f, offset))
	assert.Equal(t, anchor, s.Anchor)
	require.NotNil(t, s.Highlighted)
	assert.Same(t, s.Items[1], s.Highlighted)
	assert.Equal(t, 1, s.Active())

	labels := s.Labels()
	require.Len(t, labels, 3)
	assert.False(t, labels[0].Active)
	assert.True(t, labels[1].Active)
	assert.False(t, labels[2].Active)
	assert.True(t, labels[2].Label.Deprecated)
	assert.Equal(t, "long c() default 0L", labels[2].Label.Text)

	// Caret on the separating comma keeps the preceding argument.
	f, offset = parse(t, sessionDecl+`@Foo(a = 1<caret>, b = "y") class C {}`)
	require.True(t, s.Update(f, offset))
	assert.Equal(t, 0, s.Active())

	// Leaving the annotation closes the session.
	f, offset = parse(t, sessionDecl+`@Foo(a = 1, b = "y") class <caret>C {}`)
	assert.False(t, s.Update(f, offset))
}

func TestSession_MarkerThenParenthesis(t *testing.T) {
	t.Parallel()

	p := newProvider(t, nil)

	f, offset := parse(t, sessionDecl+`@Fo<caret>o class C {}`)

	s := paraminfo.Open(p, f, offset)
	require.NotNil(t, s)
	assert.Equal(t, "Foo", s.Type.Name)

	anchor := s.Anchor

	// The user types the opening parenthesis.
	f, offset = parse(t, sessionDecl+`@Foo(<caret>) class C {}`)
	require.True(t, s.Update(f, offset))
	assert.Equal(t, anchor, s.Anchor)
	assert.Equal(t, -1, s.Active())

	f, offset = parse(t, sessionDecl+`@Foo(a = 1<caret>) class C {}`)
	require.True(t, s.Update(f, offset))
	assert.Equal(t, 0, s.Active())
}

func TestSession_NestedAnnotationCloses(t *testing.T) {
	t.Parallel()

	p := newProvider(t, map[string]string{
		"Outer.java": `@interface Outer { Bar inner(); }`,
	})

	f, offset := parse(t, sessionDecl+`@Outer(<caret>inner = @Bar(n = 1)) class C {}`)
	s := paraminfo.Open(p, f, offset)
	require.NotNil(t, s)
	require.NotNil(t, s.Highlighted)
	assert.Equal(t, "inner", s.Highlighted.Name)

	// Moving into the nested annotation is a different anchor.
	f, offset = parse(t, sessionDecl+`@Outer(inner = @Bar(n = <caret>1)) class C {}`)
	assert.False(t, s.Update(f, offset))

	nested := paraminfo.Open(p, f, offset)
	require.NotNil(t, nested)
	assert.Equal(t, "Bar", nested.Type.Name)
	assert.Equal(t, 0, nested.Active())
}
