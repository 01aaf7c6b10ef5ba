package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const routeJava = `package app;

/** Maps a handler. */
public @interface Route {
    /** The request path. */
    String path();

    int priority() default 0;

    @Deprecated
    String[] methods() default {};
}
`

const controllerJava = `package app;

@Route(path = "/", priority = 1)
class Controller {}
`

func setupWorkspace(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Route.java"), []byte(routeJava), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Controller.java"), []byte(controllerJava), 0o644))

	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out

	err := app.Run(context.Background(), append([]string{"annohint"}, args...))

	return out.String(), err
}

func TestHint(t *testing.T) {
	t.Parallel()

	dir := setupWorkspace(t)
	file := filepath.Join(dir, "Controller.java")

	out, err := run(t, "hint", "--line", "3", "--col", "9", "--doc", file)
	require.NoError(t, err)

	assert.Contains(t, out, "@Route  app.Route")
	assert.Contains(t, out, "> String path()")
	assert.Contains(t, out, "  int priority() default 0")
	assert.Contains(t, out, "The request path.")
}

func TestHint_Markup(t *testing.T) {
	t.Parallel()

	dir := setupWorkspace(t)
	file := filepath.Join(dir, "Controller.java")

	// Caret on "priority".
	out, err := run(t, "hint", "--line", "3", "--col", "20", "--markup", file)
	require.NoError(t, err)

	want := "String path()\n" +
		"int <b>priority</b>() default 0\n" +
		"<s>String[] methods() default {}</s>\n"
	assert.Equal(t, want, out)
}

func TestHint_NoPosition(t *testing.T) {
	t.Parallel()

	dir := setupWorkspace(t)

	_, err := run(t, "hint", filepath.Join(dir, "Controller.java"))
	assert.ErrorIs(t, err, errNoPosition)
}

func TestElements_YAML(t *testing.T) {
	t.Parallel()

	dir := setupWorkspace(t)

	out, err := run(t, "elements", "--format", "yaml", dir)
	require.NoError(t, err)

	var docs []annotationDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 1)

	route := docs[0]
	assert.Equal(t, "app.Route", route.Name)
	assert.Equal(t, "Maps a handler.", route.Doc)
	require.Len(t, route.Elements, 3)

	assert.Equal(t, "path", route.Elements[0].Name)
	assert.Nil(t, route.Elements[0].Default)

	require.NotNil(t, route.Elements[1].Default)
	assert.Equal(t, "0", *route.Elements[1].Default)

	assert.Equal(t, "String[]", route.Elements[2].Type)
	assert.True(t, route.Elements[2].Deprecated)
}

func TestElements_Text(t *testing.T) {
	t.Parallel()

	dir := setupWorkspace(t)

	out, err := run(t, "elements", "--builtins", "--filter", "Route", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "@Route  app.Route")
	assert.Contains(t, out, "  String path()")
	assert.NotContains(t, out, "java.lang.Deprecated")
}

func TestElements_InvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := run(t, "elements", "--format", "json", t.TempDir())
	assert.ErrorIs(t, err, errInvalidFormat)
}
