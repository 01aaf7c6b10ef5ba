package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/rlch/annohint/javasrc"
)

// toRange converts a javasrc.Range to an LSP protocol.Range.
// Both are 0-based with UTF-16 columns.
func toRange(r javasrc.Range) protocol.Range {
	return protocol.Range{
		Start: toPosition(r.Start),
		End:   toPosition(r.End),
	}
}

func toPosition(p javasrc.Position) protocol.Position {
	return protocol.Position{
		Line:      uint32(max(0, p.Line)),      //nolint:gosec // G115: values are small line numbers
		Character: uint32(max(0, p.Character)), //nolint:gosec // G115: values are small column numbers
	}
}

func fromPosition(p protocol.Position) javasrc.Position {
	return javasrc.Position{
		Line:      int(p.Line),
		Character: int(p.Character),
	}
}

func rangePtr(r protocol.Range) *protocol.Range {
	return &r
}

// rangesOverlap checks if two ranges overlap.
func rangesOverlap(a, b protocol.Range) bool {
	// a ends before b starts
	if a.End.Line < b.Start.Line || (a.End.Line == b.Start.Line && a.End.Character < b.Start.Character) {
		return false
	}
	// b ends before a starts
	if b.End.Line < a.Start.Line || (b.End.Line == a.Start.Line && b.End.Character < a.Start.Character) {
		return false
	}

	return true
}
