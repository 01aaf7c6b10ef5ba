// Package paraminfo implements parameter info for Java annotation argument
// lists: which annotation type the caret is in, which elements it declares,
// and which of them the caret is currently on.
//
// A host (the language server or the CLI) drives a Handler through a Session:
// Locate, Initialize and PresentPopup when the popup opens, then ReLocate and
// ReHighlight on every caret move until ReLocate finds nothing.
package paraminfo

import (
	"github.com/rlch/annohint/analysis"
	"github.com/rlch/annohint/javasrc"
)

// DefaultCloseChars are the characters after which a host re-validates the
// popup and closes it when the caret left the argument list.
const DefaultCloseChars = ",){}"

// Handler supplies parameter info for one kind of argument list.
// Every method reports failure as a nil or zero result.
type Handler interface {
	// Locate returns the argument owner enclosing offset.
	Locate(f *javasrc.File, offset int) *Usage

	// Initialize resolves the items to show for usage. offset is the caret
	// at the time the popup was requested.
	Initialize(f *javasrc.File, usage *Usage, offset int) *Items

	// PresentPopup returns the offset the popup is anchored at.
	PresentPopup(usage *Usage) int

	// ReLocate confirms the caret is still inside an argument owner.
	ReLocate(f *javasrc.File, offset int) *Usage

	// ReHighlight returns the item the caret is on.
	ReHighlight(f *javasrc.File, offset int) *analysis.Element

	// CloseChars returns the characters that end the popup when typed.
	CloseChars() string

	// TracksIndex reports whether items are highlighted by identity.
	TracksIndex() bool

	// FormatLabel renders one item.
	FormatLabel(el *analysis.Element) Label

	// Capabilities describes how the host may schedule the handler.
	Capabilities() Capabilities
}

// Capabilities are scheduling hints a handler gives its host.
type Capabilities struct {
	// DumbAware handlers may run while the workspace index is incomplete.
	DumbAware bool
}

// Items is the result of Initialize.
type Items struct {
	// Type is the resolved annotation type.
	Type *analysis.TypeDecl

	// Elements are the declared elements in declaration order.
	Elements []*analysis.Element

	// Highlighted is the element the caret was on, if any.
	Highlighted *analysis.Element
}
