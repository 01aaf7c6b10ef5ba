package lsp

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/annohint/analysis"
	"github.com/rlch/annohint/javasrc"
)

// missingElementCode is the diagnostic code of the missing-element rule.
const missingElementCode = "missing-element"

// CodeAction handles textDocument/codeAction requests.
// Offers a quick fix adding the elements without a default value that an
// annotation usage in range omits.
func (s *Server) CodeAction(_ context.Context, params *protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	s.logger.Debug("CodeAction",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int("diagnosticCount", len(params.Context.Diagnostics)))

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, f, ok := s.parsedDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	var (
		actions []protocol.CodeAction
		seen    = make(map[uint32]bool)
	)

	for _, d := range doc.Analysis.Diagnostics {
		diag := convertDiagnostic(d)
		if d.Code != missingElementCode || !rangesOverlap(diag.Range, params.Range) {
			continue
		}

		usage := javasrc.ParentOfType(f.LeafAt(f.OffsetAt(d.Range.Start)),
			javasrc.TypeAnnotation, javasrc.TypeMarkerAnnotation)
		if usage == nil || seen[usage.StartByte()] {
			continue
		}

		seen[usage.StartByte()] = true

		if action := s.fixMissingElements(doc, f, usage, diag); action != nil {
			actions = append(actions, *action)
		}
	}

	return actions, nil
}

// fixMissingElements appends "name = value" for every omitted element without
// a default, with a placeholder value of the element's type.
func (s *Server) fixMissingElements(doc *Document, f *javasrc.File, usage *sitter.Node, diag protocol.Diagnostic) *protocol.CodeAction {
	t := doc.Analysis.Resolve(analysis.AnnotationName(f, usage))
	if !t.IsAnnotation() {
		return nil
	}

	pairs := analysis.Pairs(f, usage)

	given := make(map[string]bool)
	for _, pair := range pairs {
		given[pair.Name] = true
	}

	var missing []string

	for _, el := range t.Elements {
		if el.HasDefault || given[el.Name] {
			continue
		}

		missing = append(missing, el.Name+" = "+placeholderFor(el.Type))
	}

	if len(missing) == 0 {
		return nil
	}

	text := strings.Join(missing, ", ")

	var insertAt int

	if args := analysis.ArgumentList(usage); args != nil {
		// Before the closing parenthesis.
		insertAt = int(args.EndByte()) - 1

		if len(pairs) > 0 {
			// An unnamed single value has to become an explicit value pair
			// once other pairs follow it; leave that to the user.
			if pairs[0].Implicit() {
				return nil
			}

			text = ", " + text
		}
	} else {
		insertAt = int(analysis.AnnotationNameNode(usage).EndByte())
		text = "(" + text + ")"
	}

	pos := toPosition(f.PositionAt(insertAt))

	edit := protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentURI][]protocol.TextEdit{
			doc.URI: {
				{
					Range:   protocol.Range{Start: pos, End: pos},
					NewText: text,
				},
			},
		},
	}

	title := fmt.Sprintf("Add missing elements to @%s", t.Name)
	if len(missing) == 1 {
		title = fmt.Sprintf("Add missing element to @%s", t.Name)
	}

	return &protocol.CodeAction{
		Title:       title,
		Kind:        protocol.QuickFix,
		Diagnostics: []protocol.Diagnostic{diag},
		Edit:        &edit,
		IsPreferred: true,
	}
}

// placeholderFor returns a value of the element type, or "" when there is no
// obvious one.
func placeholderFor(typ string) string {
	switch {
	case strings.HasSuffix(typ, "[]"):
		return "{}"
	case typ == "String":
		return `""`
	case typ == "boolean":
		return "false"
	case typ == "char":
		return "' '"
	case typ == "int", typ == "long", typ == "short", typ == "byte", typ == "float", typ == "double":
		return "0"
	case strings.HasPrefix(typ, "Class"):
		return "Object.class"
	default:
		return ""
	}
}
