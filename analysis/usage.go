package analysis

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/rlch/annohint/javasrc"
)

// ImplicitElementName is the element an unnamed single value binds to.
const ImplicitElementName = "value"

// Pair is one argument of an annotation usage.
type Pair struct {
	// Node is the element_value_pair node, or the value itself for the
	// unnamed single-value form.
	Node *sitter.Node

	// Key is the name node. Nil for the unnamed form.
	Key *sitter.Node

	// Name is the element name the pair binds to.
	Name string

	// Value is the value node.
	Value *sitter.Node
}

// Implicit reports whether the pair uses the unnamed single-value form.
func (p Pair) Implicit() bool {
	return p.Key == nil
}

// IsAnnotationUsage reports whether node is an annotation usage.
func IsAnnotationUsage(node *sitter.Node) bool {
	return node != nil && (node.Type() == javasrc.TypeAnnotation || node.Type() == javasrc.TypeMarkerAnnotation)
}

// AnnotationNameNode returns the name reference of an annotation usage.
func AnnotationNameNode(annotation *sitter.Node) *sitter.Node {
	if annotation == nil {
		return nil
	}

	if name := annotation.ChildByFieldName("name"); name != nil {
		return name
	}

	return nameChild(annotation)
}

// AnnotationName returns the name of an annotation usage as written.
func AnnotationName(f *javasrc.File, annotation *sitter.Node) string {
	return compactName(f.Text(AnnotationNameNode(annotation)))
}

// ArgumentList returns the argument list of an annotation usage, or nil for a
// marker annotation.
func ArgumentList(annotation *sitter.Node) *sitter.Node {
	if annotation == nil {
		return nil
	}

	if args := annotation.ChildByFieldName("arguments"); args != nil {
		return args
	}

	for _, child := range javasrc.NamedChildren(annotation) {
		if child.Type() == javasrc.TypeAnnotationArgumentList {
			return child
		}
	}

	return nil
}

// Pairs returns the arguments of an annotation usage in source order.
func Pairs(f *javasrc.File, annotation *sitter.Node) []Pair {
	var pairs []Pair

	for _, child := range javasrc.NamedChildren(ArgumentList(annotation)) {
		if javasrc.IsComment(child) {
			continue
		}

		pairs = append(pairs, pairOf(f, child))
	}

	return pairs
}

// EnclosingPair returns the argument enclosing the element at offset and the
// annotation usage it belongs to.
func EnclosingPair(f *javasrc.File, offset int) (Pair, *sitter.Node, bool) {
	for n := f.ElementAt(offset); n != nil; n = n.Parent() {
		parent := n.Parent()
		if parent == nil || parent.Type() != javasrc.TypeAnnotationArgumentList {
			continue
		}

		if !n.IsNamed() || javasrc.IsComment(n) {
			continue
		}

		return pairOf(f, n), parent.Parent(), true
	}

	return Pair{}, nil, false
}

// pairOf builds a Pair from a named child of an argument list.
func pairOf(f *javasrc.File, node *sitter.Node) Pair {
	if node.Type() != javasrc.TypeElementValuePair {
		return Pair{Node: node, Name: ImplicitElementName, Value: node}
	}

	key := node.ChildByFieldName("key")

	return Pair{
		Node:  node,
		Key:   key,
		Name:  f.Text(key),
		Value: node.ChildByFieldName("value"),
	}
}
