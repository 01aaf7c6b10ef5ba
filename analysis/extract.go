package analysis

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/rlch/annohint/javasrc"
)

var declKinds = map[string]Kind{
	javasrc.TypeClassDecl:          KindClass,
	javasrc.TypeInterfaceDecl:      KindInterface,
	javasrc.TypeEnumDecl:           KindEnum,
	javasrc.TypeRecordDecl:         KindRecord,
	javasrc.TypeAnnotationTypeDecl: KindAnnotation,
}

// Extract collects the package, imports and type declarations of a file.
func Extract(f *javasrc.File) *FileDecls {
	decls := &FileDecls{Path: f.Path}
	if f.Root == nil {
		return decls
	}

	for _, child := range javasrc.NamedChildren(f.Root) {
		switch child.Type() {
		case javasrc.TypePackageDecl:
			decls.Package = compactName(f.Text(nameChild(child)))
		case javasrc.TypeImportDecl:
			if imp, ok := extractImport(f, child); ok {
				decls.Imports = append(decls.Imports, imp)
			}
		}
	}

	e := &extractor{file: f, decls: decls}
	e.visit(f.Root, "")

	return decls
}

type extractor struct {
	file  *javasrc.File
	decls *FileDecls
}

// visit records type declarations below node. outer is the qualified name of
// the enclosing type, empty at top level.
func (e *extractor) visit(node *sitter.Node, outer string) {
	for i := range int(node.NamedChildCount()) {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}

		kind, ok := declKinds[child.Type()]
		if !ok {
			// Types declared inside method bodies or initializers are not
			// visible to annotation usages elsewhere; skip them.
			if !isTypeBody(child.Type()) {
				continue
			}

			e.visit(child, outer)

			continue
		}

		decl := e.typeDecl(child, kind, outer)
		if decl == nil {
			continue
		}

		e.decls.Types = append(e.decls.Types, decl)

		if body := child.ChildByFieldName("body"); body != nil {
			e.visit(body, decl.QualifiedName)
		}
	}
}

func isTypeBody(nodeType string) bool {
	switch nodeType {
	case "class_body", "interface_body", "enum_body", "enum_body_declarations", javasrc.TypeAnnotationTypeBody:
		return true
	}

	return false
}

func (e *extractor) typeDecl(node *sitter.Node, kind Kind, outer string) *TypeDecl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	name := e.file.Text(nameNode)

	qualified := name
	if outer != "" {
		qualified = outer + "." + name
	} else if e.decls.Package != "" {
		qualified = e.decls.Package + "." + name
	}

	doc, docDeprecated := javadocOf(e.file, node)

	decl := &TypeDecl{
		Name:          name,
		QualifiedName: qualified,
		Package:       e.decls.Package,
		Outer:         outer,
		Kind:          kind,
		Deprecated:    docDeprecated || hasDeprecatedModifier(e.file, node),
		Doc:           doc,
		Path:          e.file.Path,
		NameRange:     e.file.NodeRange(nameNode),
	}

	if kind == KindAnnotation {
		decl.Elements = e.elements(node.ChildByFieldName("body"), qualified)
	}

	return decl
}

func (e *extractor) elements(body *sitter.Node, owner string) []*Element {
	var elements []*Element

	for _, member := range javasrc.NamedChildren(body) {
		if member.Type() != javasrc.TypeAnnotationElementDecl {
			continue
		}

		nameNode := member.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}

		doc, docDeprecated := javadocOf(e.file, member)

		el := &Element{
			Name:       e.file.Text(nameNode),
			Type:       PresentableType(e.file.Text(elementType(member, nameNode))),
			Deprecated: docDeprecated || hasDeprecatedModifier(e.file, member),
			Doc:        doc,
			Owner:      owner,
			Path:       e.file.Path,
			NameRange:  e.file.NodeRange(nameNode),
		}

		if dims := member.ChildByFieldName("dimensions"); dims != nil {
			el.Type += compactName(e.file.Text(dims))
		}

		if def := defaultValue(member); def != nil {
			el.Default = e.file.Text(def)
			el.HasDefault = true
		}

		elements = append(elements, el)
	}

	return elements
}

// elementType returns the return type node of an element declaration.
func elementType(member, nameNode *sitter.Node) *sitter.Node {
	if t := member.ChildByFieldName("type"); t != nil {
		return t
	}

	var last *sitter.Node

	for _, child := range javasrc.NamedChildren(member) {
		if javasrc.SameNode(child, nameNode) {
			return last
		}

		if child.Type() != javasrc.TypeModifiers && !javasrc.IsComment(child) {
			last = child
		}
	}

	return nil
}

// defaultValue returns the node following the "default" keyword.
func defaultValue(member *sitter.Node) *sitter.Node {
	seenDefault := false

	for i := range int(member.ChildCount()) {
		child := member.Child(i)
		if child == nil {
			continue
		}

		if child.Type() == "default" {
			seenDefault = true

			continue
		}

		if seenDefault && child.IsNamed() && !javasrc.IsComment(child) {
			return child
		}
	}

	return nil
}

func extractImport(f *javasrc.File, node *sitter.Node) (Import, bool) {
	var imp Import

	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		if child == nil {
			continue
		}

		switch child.Type() {
		case "static":
			return Import{}, false
		case "asterisk":
			imp.OnDemand = true
		case javasrc.TypeIdentifier, javasrc.TypeScopedIdentifier:
			imp.Name = compactName(f.Text(child))
		}
	}

	return imp, imp.Name != ""
}

// nameChild returns the identifier or scoped identifier child of node.
func nameChild(node *sitter.Node) *sitter.Node {
	for _, child := range javasrc.NamedChildren(node) {
		if child.Type() == javasrc.TypeIdentifier || child.Type() == javasrc.TypeScopedIdentifier {
			return child
		}
	}

	return nil
}

func hasDeprecatedModifier(f *javasrc.File, decl *sitter.Node) bool {
	for _, child := range javasrc.NamedChildren(decl) {
		if child.Type() != javasrc.TypeModifiers {
			continue
		}

		for _, mod := range javasrc.NamedChildren(child) {
			if mod.Type() != javasrc.TypeAnnotation && mod.Type() != javasrc.TypeMarkerAnnotation {
				continue
			}

			switch compactName(f.Text(mod.ChildByFieldName("name"))) {
			case "Deprecated", "java.lang.Deprecated":
				return true
			}
		}
	}

	return false
}

// javadocOf returns the javadoc attached to decl and whether it carries a
// @deprecated tag.
func javadocOf(f *javasrc.File, decl *sitter.Node) (string, bool) {
	prev := decl.PrevSibling()
	if !javasrc.IsComment(prev) {
		return "", false
	}

	text := f.Text(prev)
	if !strings.HasPrefix(text, "/**") {
		return "", false
	}

	return ParseJavadoc(text)
}

// ParseJavadoc strips comment markers from a javadoc comment. It returns the
// description (block tags excluded) and whether a @deprecated tag is present.
func ParseJavadoc(comment string) (string, bool) {
	comment = strings.TrimPrefix(comment, "/**")
	comment = strings.TrimSuffix(comment, "*/")

	var (
		lines      []string
		deprecated bool
		inTags     bool
	)

	for line := range strings.SplitSeq(comment, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))

		if strings.HasPrefix(line, "@") {
			inTags = true

			if strings.HasPrefix(line, "@deprecated") {
				deprecated = true
			}
		}

		if !inTags {
			lines = append(lines, line)
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), deprecated
}

var (
	qualifierPattern = regexp.MustCompile(`[A-Za-z_$][\w$]*\s*\.\s*`)
	spacePattern     = regexp.MustCompile(`\s+`)
)

// PresentableType strips package and outer-type qualifiers from a type as
// written in source, e.g. "java.util.List<java.lang.String>" becomes
// "List<String>".
func PresentableType(text string) string {
	text = qualifierPattern.ReplaceAllString(text, "")

	return spacePattern.ReplaceAllString(strings.TrimSpace(text), " ")
}

// compactName removes whitespace from a dotted name.
func compactName(text string) string {
	return spacePattern.ReplaceAllString(text, "")
}
