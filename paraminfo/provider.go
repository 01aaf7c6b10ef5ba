package paraminfo

import (
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/rlch/annohint/analysis"
	"github.com/rlch/annohint/javasrc"
)

// Usage is an annotation usage, @Name or @Name(...), found in a file.
// It is only valid while the file's tree is open.
type Usage struct {
	File *javasrc.File
	Node *sitter.Node
}

// Name returns the annotation name as written.
func (u *Usage) Name() string {
	return analysis.AnnotationName(u.File, u.Node)
}

// ArgumentList returns the argument list node, nil for a marker annotation.
func (u *Usage) ArgumentList() *sitter.Node {
	return analysis.ArgumentList(u.Node)
}

// Provider is the Handler for annotation argument lists.
type Provider struct {
	resolver analysis.Resolver

	// mu guards the declarations extracted from the last file seen, so a
	// caret move within one parse does not walk the tree again.
	mu        sync.Mutex
	lastFile  *javasrc.File
	lastDecls *analysis.FileDecls
}

// NewProvider creates a provider resolving annotation names with resolver.
func NewProvider(resolver analysis.Resolver) *Provider {
	return &Provider{resolver: resolver}
}

// Locate returns the annotation usage enclosing offset.
func (p *Provider) Locate(f *javasrc.File, offset int) *Usage {
	node := f.FindParentOfType(offset, javasrc.TypeAnnotation, javasrc.TypeMarkerAnnotation)
	if node == nil {
		return nil
	}

	return &Usage{File: f, Node: node}
}

// Initialize resolves the annotation type of usage. It returns nil when the
// name does not resolve, resolves to something other than an annotation type,
// or the annotation type declares no elements.
func (p *Provider) Initialize(f *javasrc.File, usage *Usage, offset int) *Items {
	if usage == nil {
		return nil
	}

	t := p.resolve(f, usage.Node)
	if !t.IsAnnotation() || len(t.Elements) == 0 {
		return nil
	}

	return &Items{
		Type:        t,
		Elements:    t.Elements,
		Highlighted: p.findElement(f, offset),
	}
}

// PresentPopup anchors the popup just inside the opening parenthesis. A
// marker annotation anchors where that parenthesis goes once typed after the
// name, so a session opened on @Foo survives the edit to @Foo(.
func (p *Provider) PresentPopup(usage *Usage) int {
	if args := usage.ArgumentList(); args != nil {
		return int(args.StartByte()) + 1
	}

	if name := analysis.AnnotationNameNode(usage.Node); name != nil {
		return int(name.EndByte()) + 1
	}

	return int(usage.Node.EndByte()) + 1
}

// ReLocate returns the annotation usage still enclosing offset.
func (p *Provider) ReLocate(f *javasrc.File, offset int) *Usage {
	return p.Locate(f, offset)
}

// ReHighlight returns the element the caret is on. A caret sitting on a ','
// or ')' (after optional spaces) counts as being on the preceding argument,
// so the element just typed stays highlighted.
func (p *Provider) ReHighlight(f *javasrc.File, offset int) *analysis.Element {
	lookup := javasrc.ShiftForward(f.Source, offset, " \t")
	if lookup < len(f.Source) {
		if c := f.Source[lookup]; c == ',' || c == ')' {
			lookup = javasrc.ShiftBackward(f.Source, lookup-1, " \t")
		}
	}

	return p.findElement(f, lookup)
}

// CloseChars returns DefaultCloseChars.
func (p *Provider) CloseChars() string {
	return DefaultCloseChars
}

// TracksIndex returns true: annotation elements are named, so the highlighted
// item is chosen by identity rather than by argument position.
func (p *Provider) TracksIndex() bool {
	return true
}

// FormatLabel renders el as "Type name() default value".
func (p *Provider) FormatLabel(el *analysis.Element) Label {
	return FormatLabel(el)
}

// Capabilities reports the provider as usable during indexing.
func (p *Provider) Capabilities() Capabilities {
	return Capabilities{DumbAware: true}
}

// DocumentationFor returns the javadoc of el.
func (p *Provider) DocumentationFor(el *analysis.Element) string {
	if el == nil {
		return ""
	}

	return el.Doc
}

// findElement returns the declared element the argument at offset binds to.
func (p *Provider) findElement(f *javasrc.File, offset int) *analysis.Element {
	pair, owner, ok := analysis.EnclosingPair(f, offset)
	if !ok || pair.Name == "" {
		return nil
	}

	t := p.resolve(f, owner)
	if !t.IsAnnotation() {
		return nil
	}

	return t.Element(pair.Name)
}

func (p *Provider) resolve(f *javasrc.File, annotation *sitter.Node) *analysis.TypeDecl {
	if p.resolver == nil || !analysis.IsAnnotationUsage(annotation) {
		return nil
	}

	name := analysis.AnnotationName(f, annotation)
	if name == "" {
		return nil
	}

	return p.resolver.Resolve(p.decls(f), name)
}

// decls returns the declarations of f, extracting them once per file.
func (p *Provider) decls(f *javasrc.File) *analysis.FileDecls {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastFile != f {
		p.lastFile = f
		p.lastDecls = analysis.Extract(f)
	}

	return p.lastDecls
}

// Ensure Provider implements Handler.
var _ Handler = (*Provider)(nil)
