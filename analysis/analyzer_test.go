package analysis_test

import (
	"context"
	"slices"
	"testing"

	"github.com/rlch/annohint/analysis"
)

func TestAnalyzer_Analyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		input           string
		wantTypes       []string
		wantUsages      []string
		wantDiagnostics int
	}{
		{
			name: "annotation type and usage",
			input: `
package com.acme;

@interface Route {
    String path();
}

@Route(path = "/") class Controller {}
`,
			wantTypes:  []string{"com.acme.Route", "com.acme.Controller"},
			wantUsages: []string{"Route"},
		},
		{
			name: "marker and qualified usages",
			input: `
class C {
    @Override
    @java.lang.SuppressWarnings("unchecked")
    public String toString() { return ""; }
}
`,
			wantTypes:  []string{"C"},
			wantUsages: []string{"Override", "java.lang.SuppressWarnings"},
		},
		{
			name: "nested usages",
			input: `
@interface Inner { int v(); }
@interface Outer { Inner inner(); }

@Outer(inner = @Inner(v = 1)) class C {}
`,
			wantTypes:  []string{"Inner", "Outer", "C"},
			wantUsages: []string{"Outer", "Inner"},
		},
		{
			name: "missing element reported",
			input: `
@interface Route { String path(); }

@Route class C {}
`,
			wantTypes:       []string{"Route", "C"},
			wantUsages:      []string{"Route"},
			wantDiagnostics: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			analyzer := analysis.NewAnalyzer(nil)
			defer analyzer.Close()

			result := analyzer.Analyze(context.Background(), "Test.java", []byte(tt.input))
			defer result.Close()

			if result.ParseError != nil {
				t.Fatalf("unexpected parse error: %v", result.ParseError)
			}

			var types []string
			for _, decl := range result.Decls.Types {
				types = append(types, decl.QualifiedName)
			}

			if !slices.Equal(types, tt.wantTypes) {
				t.Errorf("types = %v, want %v", types, tt.wantTypes)
			}

			var usages []string
			for _, usage := range result.Usages() {
				usages = append(usages, analysis.AnnotationName(result.File, usage))
			}

			if !slices.Equal(usages, tt.wantUsages) {
				t.Errorf("usages = %v, want %v", usages, tt.wantUsages)
			}

			if len(result.Diagnostics) != tt.wantDiagnostics {
				t.Errorf("got %d diagnostics, want %d: %v", len(result.Diagnostics), tt.wantDiagnostics, result.Diagnostics)
			}
		})
	}
}

func TestAnalyzer_PartialParsing(t *testing.T) {
	t.Parallel()

	// A file still being typed keeps its declarations.
	input := `
package com.acme;

@interface Route {
    String path();
    int priority() default 0;
}

class C {
    @Route(path = "/", 
    void f() {}
}
`

	analyzer := analysis.NewAnalyzer(nil)
	defer analyzer.Close()

	result := analyzer.Analyze(context.Background(), "Test.java", []byte(input))
	defer result.Close()

	if result.File == nil {
		t.Fatal("expected a parse tree for partial input")
	}

	route := result.Decls.Local("Route")
	if route == nil {
		t.Fatal("expected Route to be extracted")
	}

	if len(route.Elements) != 2 {
		t.Errorf("got %d elements, want 2", len(route.Elements))
	}

	assertHasDiagnostic(t, result, "syntax-error")
	assertNoDiagnostic(t, result, "missing-element")
}

func TestAnalyzer_LocalResolver(t *testing.T) {
	t.Parallel()

	input := `
package com.acme;

@interface Route { String path(); }
`

	analyzer := analysis.NewAnalyzer(nil)
	defer analyzer.Close()

	result := analyzer.Analyze(context.Background(), "Test.java", []byte(input))
	defer result.Close()

	tests := []struct {
		name string
		want bool
	}{
		{"Route", true},
		{"com.acme.Route", true},
		{"com . acme . Route", true},
		{"Deprecated", false},
	}

	for _, tt := range tests {
		if got := result.Resolve(tt.name) != nil; got != tt.want {
			t.Errorf("Resolve(%q) found = %v, want %v", tt.name, got, tt.want)
		}
	}
}
