package javasrc

import (
	"bytes"
	"unicode/utf16"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// Position is a 0-based line and column. Columns count UTF-16 code units,
// matching LSP.
type Position struct {
	Line      int
	Character int
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position
	End   Position
}

// OffsetAt converts a position to a byte offset. Positions past the end of a
// line clamp to the line end; positions past the last line clamp to the end
// of the source.
func (f *File) OffsetAt(pos Position) int {
	return OffsetAt(f.Source, pos)
}

// PositionAt converts a byte offset to a position.
func (f *File) PositionAt(offset int) Position {
	return PositionAt(f.Source, offset)
}

// NodeRange returns the position range of node.
func (f *File) NodeRange(node *sitter.Node) Range {
	if node == nil {
		return Range{}
	}

	return Range{
		Start: f.PositionAt(int(node.StartByte())),
		End:   f.PositionAt(int(node.EndByte())),
	}
}

// OffsetAt converts a position in src to a byte offset.
func OffsetAt(src []byte, pos Position) int {
	offset := 0

	for line := 0; line < pos.Line; line++ {
		next := bytes.IndexByte(src[offset:], '\n')
		if next < 0 {
			return len(src)
		}

		offset += next + 1
	}

	units := 0

	for offset < len(src) && src[offset] != '\n' && units < pos.Character {
		r, size := utf8.DecodeRune(src[offset:])
		units += utf16Len(r)
		offset += size
	}

	return offset
}

// PositionAt converts a byte offset in src to a position.
func PositionAt(src []byte, offset int) Position {
	offset = max(0, min(offset, len(src)))

	var pos Position

	lineStart := 0

	for i := range offset {
		if src[i] == '\n' {
			pos.Line++
			lineStart = i + 1
		}
	}

	for i := lineStart; i < offset; {
		r, size := utf8.DecodeRune(src[i:])
		pos.Character += utf16Len(r)
		i += size
	}

	return pos
}

func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}

	return 1
}
