package analysis

import (
	"context"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/rlch/annohint/javasrc"
)

// Analyzer performs semantic analysis on Java files.
type Analyzer struct {
	// resolver resolves annotation names across files.
	// Can be nil for single-file analysis.
	resolver Resolver

	// rules is the set of semantic checks to run.
	rules []*Rule

	// mu guards parser, which tree-sitter does not allow to be shared.
	mu     sync.Mutex
	parser *javasrc.Parser
}

// NewAnalyzer creates a new analyzer with default rules.
// Pass nil for resolver to resolve names against the file itself only.
func NewAnalyzer(resolver Resolver) *Analyzer {
	return NewAnalyzerWithRules(resolver, DefaultRules())
}

// NewAnalyzerWithRules creates an analyzer with custom rules.
func NewAnalyzerWithRules(resolver Resolver, rules []*Rule) *Analyzer {
	return &Analyzer{
		resolver: resolver,
		rules:    rules,
		parser:   javasrc.NewParser(),
	}
}

// Analyze parses and analyzes a Java file. The caller owns the returned file
// and must Close it.
func (a *Analyzer) Analyze(ctx context.Context, path string, content []byte) *AnalyzedFile {
	result := &AnalyzedFile{
		Path:        path,
		Diagnostics: []Diagnostic{},
		resolver:    a.resolver,
	}

	a.mu.Lock()
	f, err := a.parser.Parse(ctx, content)
	a.mu.Unlock()

	if err != nil {
		result.ParseError = err
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Severity: SeverityError,
			Message:  err.Error(),
			Code:     "parse-error",
			Source:   "annohint",
		})

		return result
	}

	f.Path = path
	result.File = f
	result.Decls = Extract(f)

	if result.resolver == nil {
		result.resolver = localResolver{}
	}

	// Run all semantic rules.
	for _, rule := range a.rules {
		rule.Run(result)
	}

	return result
}

// Close releases the analyzer's parser.
func (a *Analyzer) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.parser.Close()
}

// Usages returns every annotation usage in the file in source order.
func (f *AnalyzedFile) Usages() []*sitter.Node {
	if f.File == nil {
		return nil
	}

	var usages []*sitter.Node

	f.File.Walk(func(n *sitter.Node) bool {
		if IsAnnotationUsage(n) {
			usages = append(usages, n)
		}

		return true
	})

	return usages
}

// localResolver resolves names against the declarations of the file itself.
type localResolver struct{}

func (localResolver) Resolve(scope *FileDecls, name string) *TypeDecl {
	name = compactName(name)

	for _, t := range scope.Types {
		if t.Name == name || t.QualifiedName == name {
			return t
		}
	}

	return nil
}
