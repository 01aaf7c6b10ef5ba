package analysis

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/rlch/annohint/javasrc"
)

// Rule represents a semantic analysis check.
// Inspired by go/analysis.Analyzer pattern.
type Rule struct {
	// Name is a short identifier for the rule (used in diagnostic codes).
	Name string

	// Doc is a brief description of what the rule checks.
	Doc string

	// Severity is the default severity for diagnostics from this rule.
	Severity DiagnosticSeverity

	// Run executes the rule and appends any diagnostics to the file.
	Run func(f *AnalyzedFile)
}

// DefaultRules returns all built-in semantic analysis rules.
func DefaultRules() []*Rule {
	return []*Rule{
		syntaxErrorRule,
		notAnnotationTypeRule,
		unknownElementRule,
		duplicateElementRule,
		missingElementRule,
	}
}

// ----------------------------------------------------------------------------
// Rule: syntax-error
// ----------------------------------------------------------------------------

var syntaxErrorRule = &Rule{
	Name:     "syntax-error",
	Doc:      "Reports ERROR and MISSING nodes produced by the parser.",
	Severity: SeverityError,
	Run:      checkSyntaxErrors,
}

func checkSyntaxErrors(f *AnalyzedFile) {
	if !f.File.HasErrors() {
		return
	}

	f.File.Walk(func(n *sitter.Node) bool {
		switch {
		case n.IsMissing():
			f.addDiagnostic("syntax-error", SeverityError, n, fmt.Sprintf("missing %s", n.Type()))

			return false
		case n.Type() == "ERROR":
			f.addDiagnostic("syntax-error", SeverityError, n, "syntax error")

			return false
		}

		return n.HasError()
	})
}

// ----------------------------------------------------------------------------
// Rule: not-annotation-type
// ----------------------------------------------------------------------------

var notAnnotationTypeRule = &Rule{
	Name:     "not-annotation-type",
	Doc:      "Reports annotation usages whose name resolves to a class, interface, enum or record.",
	Severity: SeverityError,
	Run:      checkNotAnnotationType,
}

func checkNotAnnotationType(f *AnalyzedFile) {
	for _, usage := range f.Usages() {
		t := f.Resolve(AnnotationName(f.File, usage))
		if t == nil || t.IsAnnotation() {
			continue
		}

		f.addDiagnostic("not-annotation-type", SeverityError, AnnotationNameNode(usage),
			fmt.Sprintf("%s is not an annotation type", t.Name))
	}
}

// ----------------------------------------------------------------------------
// Rule: unknown-element
// ----------------------------------------------------------------------------

var unknownElementRule = &Rule{
	Name:     "unknown-element",
	Doc:      "Reports name-value pairs naming an element the annotation type does not declare.",
	Severity: SeverityWarning,
	Run:      checkUnknownElements,
}

func checkUnknownElements(f *AnalyzedFile) {
	for _, usage := range f.Usages() {
		t := f.Resolve(AnnotationName(f.File, usage))
		if !t.IsAnnotation() {
			continue
		}

		for _, pair := range Pairs(f.File, usage) {
			if pair.Name == "" || t.Element(pair.Name) != nil {
				continue
			}

			node := pair.Key
			if node == nil {
				node = pair.Node
			}

			f.addDiagnostic("unknown-element", SeverityWarning, node,
				fmt.Sprintf("cannot resolve element '%s' in @%s", pair.Name, t.Name))
		}
	}
}

// ----------------------------------------------------------------------------
// Rule: duplicate-element
// ----------------------------------------------------------------------------

var duplicateElementRule = &Rule{
	Name:     "duplicate-element",
	Doc:      "Reports elements given more than once in one annotation usage.",
	Severity: SeverityError,
	Run:      checkDuplicateElements,
}

func checkDuplicateElements(f *AnalyzedFile) {
	for _, usage := range f.Usages() {
		seen := make(map[string]bool)

		for _, pair := range Pairs(f.File, usage) {
			if pair.Name == "" {
				continue
			}

			if seen[pair.Name] {
				node := pair.Key
				if node == nil {
					node = pair.Node
				}

				f.addDiagnostic("duplicate-element", SeverityError, node, fmt.Sprintf("duplicate element '%s'", pair.Name))
			}

			seen[pair.Name] = true
		}
	}
}

// ----------------------------------------------------------------------------
// Rule: missing-element
// ----------------------------------------------------------------------------

var missingElementRule = &Rule{
	Name:     "missing-element",
	Doc:      "Reports annotation usages that omit an element without a default value.",
	Severity: SeverityError,
	Run:      checkMissingElements,
}

func checkMissingElements(f *AnalyzedFile) {
	for _, usage := range f.Usages() {
		// Skip usages still being typed.
		if usage.HasError() {
			continue
		}

		t := f.Resolve(AnnotationName(f.File, usage))
		if !t.IsAnnotation() {
			continue
		}

		given := make(map[string]bool)
		for _, pair := range Pairs(f.File, usage) {
			given[pair.Name] = true
		}

		for _, el := range t.Elements {
			if el.HasDefault || given[el.Name] {
				continue
			}

			f.addDiagnostic("missing-element", SeverityError, AnnotationNameNode(usage),
				fmt.Sprintf("@%s is missing element '%s'", t.Name, el.Name))
		}
	}
}

// addDiagnostic records a diagnostic for node.
func (f *AnalyzedFile) addDiagnostic(code string, severity DiagnosticSeverity, node *sitter.Node, message string) {
	var rng javasrc.Range
	if node != nil {
		rng = f.File.NodeRange(node)
	}

	f.Diagnostics = append(f.Diagnostics, Diagnostic{
		Range:    rng,
		Severity: severity,
		Message:  message,
		Code:     code,
		Source:   "annohint",
	})
}
