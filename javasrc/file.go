package javasrc

import (
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Node types of the Java grammar that annohint inspects.
const (
	TypeProgram                = "program"
	TypeAnnotation             = "annotation"
	TypeMarkerAnnotation       = "marker_annotation"
	TypeAnnotationArgumentList = "annotation_argument_list"
	TypeElementValuePair       = "element_value_pair"
	TypeAnnotationTypeDecl     = "annotation_type_declaration"
	TypeAnnotationTypeBody     = "annotation_type_body"
	TypeAnnotationElementDecl  = "annotation_type_element_declaration"
	TypeClassDecl              = "class_declaration"
	TypeInterfaceDecl          = "interface_declaration"
	TypeEnumDecl               = "enum_declaration"
	TypeRecordDecl             = "record_declaration"
	TypePackageDecl            = "package_declaration"
	TypeImportDecl             = "import_declaration"
	TypeModifiers              = "modifiers"
	TypeIdentifier             = "identifier"
	TypeScopedIdentifier       = "scoped_identifier"
)

// File is a parsed Java source file.
type File struct {
	// Tree is the complete tree-sitter parse tree.
	Tree *sitter.Tree
	// Root is the root node of the tree.
	Root *sitter.Node
	// Source is the source code that was parsed.
	Source []byte
	// Path is the path to the source file (empty for in-memory parsing).
	Path string
}

// Close releases the parse tree.
func (f *File) Close() {
	if f.Tree != nil {
		f.Tree.Close()
		f.Tree = nil
		f.Root = nil
	}
}

// HasErrors reports whether the tree contains syntax errors.
func (f *File) HasErrors() bool {
	return f.Root != nil && f.Root.HasError()
}

// Text returns the source text of a node.
func (f *File) Text(node *sitter.Node) string {
	if node == nil || f.Source == nil {
		return ""
	}

	return node.Content(f.Source)
}

// LeafAt returns the smallest node whose byte range contains offset.
// Returns nil when offset is outside the tree.
func (f *File) LeafAt(offset int) *sitter.Node {
	if f.Root == nil || offset < 0 || offset >= len(f.Source) {
		return nil
	}

	node := f.Root
	if !contains(node, offset) {
		return nil
	}

descend:
	for {
		for i := range int(node.ChildCount()) {
			child := node.Child(i)
			if child != nil && contains(child, offset) {
				node = child

				continue descend
			}
		}

		return node
	}
}

// ElementAt returns the leaf at offset. When offset is on whitespace or past
// the end of the source, the leaf ending before the whitespace is returned,
// so a caret right after a token still belongs to that token's construct.
func (f *File) ElementAt(offset int) *sitter.Node {
	if offset < 0 {
		return nil
	}

	if offset >= len(f.Source) || isSpace(f.Source[offset]) {
		prev := ShiftBackward(f.Source, min(offset, len(f.Source))-1, " \t\r\n")
		if prev < 0 {
			return nil
		}

		offset = prev
	}

	return f.LeafAt(offset)
}

// FindParentOfType returns the nearest ancestor-or-self of the element at
// offset whose type is one of types.
func (f *File) FindParentOfType(offset int, types ...string) *sitter.Node {
	return ParentOfType(f.ElementAt(offset), types...)
}

// Walk traverses the tree depth-first. Returning false from visit skips the
// node's children.
func (f *File) Walk(visit func(*sitter.Node) bool) {
	if f.Root == nil {
		return
	}

	walk(f.Root, visit)
}

func walk(node *sitter.Node, visit func(*sitter.Node) bool) {
	if !visit(node) {
		return
	}

	for i := range int(node.ChildCount()) {
		if child := node.Child(i); child != nil {
			walk(child, visit)
		}
	}
}

// ParentOfType returns node or its nearest ancestor whose type is one of types.
func ParentOfType(node *sitter.Node, types ...string) *sitter.Node {
	for n := node; n != nil; n = n.Parent() {
		if slices.Contains(types, n.Type()) {
			return n
		}
	}

	return nil
}

// SameNode reports whether a and b denote the same node of one tree.
func SameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Type() == b.Type() && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

// NamedChildren returns the named children of node.
func NamedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}

	children := make([]*sitter.Node, 0, node.NamedChildCount())

	for i := range int(node.NamedChildCount()) {
		if child := node.NamedChild(i); child != nil {
			children = append(children, child)
		}
	}

	return children
}

// IsComment reports whether node is a line or block comment.
func IsComment(node *sitter.Node) bool {
	return node != nil && strings.HasSuffix(node.Type(), "comment")
}

// ShiftForward returns the first offset at or after offset whose byte is not
// in chars.
func ShiftForward(src []byte, offset int, chars string) int {
	for offset < len(src) && strings.IndexByte(chars, src[offset]) >= 0 {
		offset++
	}

	return offset
}

// ShiftBackward returns the last offset at or before offset whose byte is not
// in chars, or -1.
func ShiftBackward(src []byte, offset int, chars string) int {
	if offset >= len(src) {
		offset = len(src) - 1
	}

	for offset >= 0 && strings.IndexByte(chars, src[offset]) >= 0 {
		offset--
	}

	return offset
}

func contains(node *sitter.Node, offset int) bool {
	return int(node.StartByte()) <= offset && offset < int(node.EndByte())
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
