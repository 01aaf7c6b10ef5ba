package lsp

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/annohint/paraminfo"
)

// SignatureHelp handles textDocument/signatureHelp requests.
// A fresh request opens a parameter info session for the annotation at the
// caret; a retrigger updates the document's open session and closes it once
// the caret leaves the annotation.
func (s *Server) SignatureHelp(_ context.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	s.logger.Debug("SignatureHelp",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, f, ok := s.parsedDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	offset := f.OffsetAt(fromPosition(params.Position))
	retrigger := params.Context != nil && params.Context.IsRetrigger

	if retrigger && doc.Session != nil {
		if !doc.Session.Update(f, offset) {
			s.logger.Debug("Closing parameter info", zap.Int("anchor", doc.Session.Anchor))
			doc.Session = nil

			return nil, nil //nolint:nilnil
		}
	} else {
		doc.Session = paraminfo.Open(s.provider, f, offset)
		if doc.Session == nil {
			return nil, nil //nolint:nilnil
		}
	}

	return s.buildSignatureHelp(doc.Session), nil
}

// buildSignatureHelp lists one signature per annotation element. The
// highlighted element is the active signature; with nothing highlighted the
// active parameter points past the single parameter so no name is emphasized.
func (s *Server) buildSignatureHelp(session *paraminfo.Session) *protocol.SignatureHelp {
	labels := session.Labels()
	signatures := make([]protocol.SignatureInformation, 0, len(labels))

	for _, item := range labels {
		signatures = append(signatures, s.buildSignatureInfo(item))
	}

	help := &protocol.SignatureHelp{
		Signatures:      signatures,
		ActiveSignature: 0,
		ActiveParameter: 1,
	}

	if active := session.Active(); active >= 0 {
		help.ActiveSignature = uint32(active) //nolint:gosec // G115: item counts are small
		help.ActiveParameter = 0
	}

	return help
}

// buildSignatureInfo creates a SignatureInformation for one element.
func (s *Server) buildSignatureInfo(item paraminfo.ItemLabel) protocol.SignatureInformation {
	sig := protocol.SignatureInformation{
		Label: item.Label.Text,
		Parameters: []protocol.ParameterInformation{
			{Label: item.Element.Name},
		},
	}

	if doc := s.elementDocumentation(item); doc != "" {
		sig.Documentation = &protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: doc,
		}
	}

	return sig
}

// elementDocumentation joins the element's javadoc with a deprecation note.
func (s *Server) elementDocumentation(item paraminfo.ItemLabel) string {
	var parts []string

	if item.Label.Deprecated {
		parts = append(parts, "**Deprecated**")
	}

	if doc := s.provider.DocumentationFor(item.Element); doc != "" {
		parts = append(parts, doc)
	}

	return strings.Join(parts, "\n\n")
}
