// Package analysis extracts Java type declarations, resolves annotation
// references against a workspace index, and reports annotation usage problems.
package analysis

import (
	"github.com/rlch/annohint/javasrc"
)

// AnalyzedFile holds semantic analysis results for a single file.
type AnalyzedFile struct {
	// Path is the file path.
	Path string

	// File is the parse tree. Nil if parsing failed.
	File *javasrc.File

	// ParseError holds the parse error if tree-sitter could not produce a tree.
	ParseError error

	// Diagnostics contains all errors and warnings found during analysis.
	Diagnostics []Diagnostic

	// Decls contains the package, imports and type declarations of this file.
	Decls *FileDecls

	resolver Resolver
}

// Resolve resolves a type name as written in this file.
func (f *AnalyzedFile) Resolve(name string) *TypeDecl {
	if f.resolver == nil || f.Decls == nil {
		return nil
	}

	return f.resolver.Resolve(f.Decls, name)
}

// Close releases the parse tree.
func (f *AnalyzedFile) Close() {
	if f.File != nil {
		f.File.Close()
	}
}

// Resolver resolves type names in the scope of a file.
type Resolver interface {
	Resolve(scope *FileDecls, name string) *TypeDecl
}

// FileDecls holds the named declarations of one file.
type FileDecls struct {
	// Path of the declaring file.
	Path string

	// Package is the declared package, empty for the default package.
	Package string

	// Imports in declaration order. Static imports are skipped.
	Imports []Import

	// Types declared in the file, outer types before nested ones.
	Types []*TypeDecl
}

// Local returns the type declared in this file with the given simple name.
// Top-level types win over nested ones.
func (d *FileDecls) Local(name string) *TypeDecl {
	var nested *TypeDecl

	for _, t := range d.Types {
		if t.Name != name {
			continue
		}

		if t.Outer == "" {
			return t
		}

		if nested == nil {
			nested = t
		}
	}

	return nested
}

// Import is a single import declaration.
type Import struct {
	// Name is the imported name without the trailing ".*".
	Name string
	// OnDemand is true for "import a.b.*;".
	OnDemand bool
}

// Kind is the kind of a type declaration.
type Kind int

// Kind constants.
const (
	KindClass Kind = iota
	KindInterface
	KindEnum
	KindRecord
	KindAnnotation
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindRecord:
		return "record"
	case KindAnnotation:
		return "@interface"
	default:
		return "unknown"
	}
}

// TypeDecl is a Java type declaration.
type TypeDecl struct {
	// Name is the simple name.
	Name string

	// QualifiedName is the package-qualified name, with nested types joined
	// by dots (e.g., "com.acme.Outer.Inner").
	QualifiedName string

	// Package is the declaring package.
	Package string

	// Outer is the qualified name of the enclosing type, if nested.
	Outer string

	Kind Kind

	// Elements are the declared annotation elements in declaration order.
	// Always empty unless Kind is KindAnnotation.
	Elements []*Element

	Deprecated bool

	// Doc is the javadoc text with comment markers stripped.
	Doc string

	// Path of the declaring file.
	Path string

	// NameRange is the range of the declared name.
	NameRange javasrc.Range

	// Builtin is true for the embedded JDK declarations.
	Builtin bool
}

// IsAnnotation reports whether the type is an annotation type.
func (t *TypeDecl) IsAnnotation() bool {
	return t != nil && t.Kind == KindAnnotation
}

// Element returns the declared element with the given name.
func (t *TypeDecl) Element(name string) *Element {
	if t == nil {
		return nil
	}

	for _, e := range t.Elements {
		if e.Name == name {
			return e
		}
	}

	return nil
}

// Element is one declared element of an annotation type.
type Element struct {
	Name string

	// Type is the presentable return type, with package qualifiers stripped.
	Type string

	// Default is the source text of the default value.
	Default string

	// HasDefault is true when the element declares a default value.
	HasDefault bool

	Deprecated bool

	// Doc is the javadoc text with comment markers stripped.
	Doc string

	// Owner is the qualified name of the declaring annotation type.
	Owner string

	// Path of the declaring file.
	Path string

	// NameRange is the range of the declared name.
	NameRange javasrc.Range
}

// Diagnostic represents an error or warning found during analysis.
type Diagnostic struct {
	Range    javasrc.Range
	Severity DiagnosticSeverity
	Message  string
	Code     string // e.g., "unknown-element", "missing-element"
	Source   string // "annohint"
}

// DiagnosticSeverity indicates the severity of a diagnostic.
type DiagnosticSeverity int

// Diagnostic severity constants.
const (
	SeverityError DiagnosticSeverity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)
