package lsp

import (
	"context"
	"fmt"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/annohint/analysis"
	"github.com/rlch/annohint/javasrc"
	"github.com/rlch/annohint/paraminfo"
)

// identChars are the bytes skipped while looking for the start of the name
// being typed.
const identChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_$"

// Completion handles textDocument/completion requests.
// Inside an annotation argument list, at a position where a pair name may be
// typed, offers the elements not given yet.
func (s *Server) Completion(_ context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	s.logger.Debug("Completion",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	s.mu.Lock()
	defer s.mu.Unlock()

	_, f, ok := s.parsedDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	offset := f.OffsetAt(fromPosition(params.Position))

	usage := s.provider.Locate(f, offset)
	if usage == nil || !atPairName(f, usage, offset) {
		return nil, nil //nolint:nilnil
	}

	items := s.completeElements(f, usage, offset)
	if len(items) == 0 {
		return nil, nil //nolint:nilnil
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

// atPairName reports whether offset is where a pair name goes: right after
// the opening parenthesis or a comma of the usage's argument list, possibly
// with part of the name already typed.
func atPairName(f *javasrc.File, usage *paraminfo.Usage, offset int) bool {
	args := usage.ArgumentList()
	if args == nil || offset <= int(args.StartByte()) || offset >= int(args.EndByte()) {
		return false
	}

	prev := javasrc.ShiftBackward(f.Source, offset-1, identChars+" \t\r\n")
	if prev < int(args.StartByte()) {
		return false
	}

	return f.Source[prev] == '(' || f.Source[prev] == ','
}

// completeElements returns the elements of the usage's type that have not
// been given, in declaration order.
func (s *Server) completeElements(f *javasrc.File, usage *paraminfo.Usage, offset int) []protocol.CompletionItem {
	items := s.provider.Initialize(f, usage, offset)
	if items == nil {
		return nil
	}

	given := make(map[string]bool)

	for _, pair := range analysis.Pairs(f, usage.Node) {
		// The name being typed does not count.
		if pair.Key != nil && int(pair.Key.StartByte()) <= offset && offset <= int(pair.Key.EndByte()) {
			continue
		}

		given[pair.Name] = true
	}

	var completions []protocol.CompletionItem

	for i, el := range items.Elements {
		if given[el.Name] {
			continue
		}

		item := protocol.CompletionItem{
			Label:      el.Name,
			Kind:       protocol.CompletionItemKindProperty,
			Detail:     s.provider.FormatLabel(el).Text,
			InsertText: el.Name + " = ",
			SortText:   fmt.Sprintf("%03d", i),
			Deprecated: el.Deprecated,
		}

		if doc := s.provider.DocumentationFor(el); doc != "" {
			item.Documentation = &protocol.MarkupContent{
				Kind:  protocol.Markdown,
				Value: doc,
			}
		}

		completions = append(completions, item)
	}

	return completions
}
