package paraminfo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rlch/annohint/analysis"
	"github.com/rlch/annohint/paraminfo"
)

func TestFormatLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		element   *analysis.Element
		text      string
		escaped   string
		highlight string
	}{
		{
			name:      "no default",
			element:   &analysis.Element{Type: "String", Name: "a"},
			text:      "String a()",
			escaped:   "String a()",
			highlight: "a",
		},
		{
			name:      "string default",
			element:   &analysis.Element{Type: "String", Name: "b", Default: `"x"`, HasDefault: true},
			text:      `String b() default "x"`,
			escaped:   "String b() default &#34;x&#34;",
			highlight: "b",
		},
		{
			name:      "generic type",
			element:   &analysis.Element{Type: "Class<? extends Number>", Name: "type"},
			text:      "Class<? extends Number> type()",
			escaped:   "Class&lt;? extends Number&gt; type()",
			highlight: "type",
		},
		{
			name:      "char default",
			element:   &analysis.Element{Type: "char", Name: "sep", Default: `'&'`, HasDefault: true},
			text:      "char sep() default '&'",
			escaped:   "char sep() default &#39;&amp;&#39;",
			highlight: "sep",
		},
		{
			name:      "array default",
			element:   &analysis.Element{Type: "String[]", Name: "tags", Default: "{}", HasDefault: true},
			text:      "String[] tags() default {}",
			escaped:   "String[] tags() default {}",
			highlight: "tags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			label := paraminfo.FormatLabel(tt.element)

			assert.Equal(t, tt.text, label.Text)
			assert.Equal(t, tt.escaped, label.Escaped())
			assert.Equal(t, tt.highlight, label.Escaped()[label.HighlightStart:label.HighlightEnd])

			_, name, _ := label.Parts()
			assert.Equal(t, tt.element.Name, name)
		})
	}
}

func TestFormatLabel_HighlightOffsets(t *testing.T) {
	t.Parallel()

	label := paraminfo.FormatLabel(&analysis.Element{Type: "Class<? extends Number>", Name: "type"})

	// "Class&lt;? extends Number&gt; " is 30 bytes.
	assert.Equal(t, 30, label.HighlightStart)
	assert.Equal(t, 34, label.HighlightEnd)
}

func TestLabel_Markup(t *testing.T) {
	t.Parallel()

	plain := paraminfo.FormatLabel(&analysis.Element{Type: "List<String>", Name: "names"})
	assert.Equal(t, "List&lt;String&gt; names()", plain.Markup(false))
	assert.Equal(t, "List&lt;String&gt; <b>names</b>()", plain.Markup(true))

	deprecated := paraminfo.FormatLabel(&analysis.Element{
		Type:       "int",
		Name:       "old",
		Default:    "1",
		HasDefault: true,
		Deprecated: true,
	})
	assert.True(t, deprecated.Deprecated)
	assert.Equal(t, "<s>int <b>old</b>() default 1</s>", deprecated.Markup(true))
}

func TestEscape(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "&amp;&lt;&gt;&#34;&#39;", paraminfo.Escape(`&<>"'`))
	assert.Equal(t, "plain", paraminfo.Escape("plain"))
}
