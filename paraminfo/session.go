package paraminfo

import (
	"slices"

	"github.com/rlch/annohint/analysis"
	"github.com/rlch/annohint/javasrc"
)

// Session is one open popup. It keeps the anchor and the resolved items; the
// parse tree it was opened on is not retained.
type Session struct {
	handler Handler

	// Anchor is the offset the popup is attached to.
	Anchor int

	// Type is the resolved annotation type.
	Type *analysis.TypeDecl

	// Items are fixed for the lifetime of the session.
	Items []*analysis.Element

	// Highlighted is the element the caret is on, or nil.
	Highlighted *analysis.Element
}

// ItemLabel is a formatted item with its highlight state.
type ItemLabel struct {
	Element *analysis.Element
	Label   Label
	Active  bool
}

// Open runs Locate, Initialize and PresentPopup at offset. It returns nil
// when there is nothing to show.
func Open(h Handler, f *javasrc.File, offset int) *Session {
	usage := h.Locate(f, offset)
	if usage == nil {
		return nil
	}

	items := h.Initialize(f, usage, offset)
	if items == nil {
		return nil
	}

	s := &Session{
		handler: h,
		Anchor:  h.PresentPopup(usage),
		Type:    items.Type,
		Items:   items.Elements,
	}
	s.highlight(items.Highlighted)

	return s
}

// Update re-validates the session after the caret moved to offset in f, which
// may be a newer version of the file. It returns false when the popup should
// close: the caret left the annotation, or moved into a different one.
func (s *Session) Update(f *javasrc.File, offset int) bool {
	usage := s.handler.ReLocate(f, offset)
	if usage == nil {
		return false
	}

	if s.handler.PresentPopup(usage) != s.Anchor {
		return false
	}

	s.highlight(s.handler.ReHighlight(f, offset))

	return true
}

// highlight sets the highlighted item to the one el identifies. Elements of
// other annotation types (from a nested annotation) are not items of this
// session. Items are matched by owner and name, not by pointer.
func (s *Session) highlight(el *analysis.Element) {
	s.Highlighted = nil

	if el == nil {
		return
	}

	i := slices.IndexFunc(s.Items, func(item *analysis.Element) bool {
		return item.Owner == el.Owner && item.Name == el.Name
	})
	if i >= 0 {
		s.Highlighted = s.Items[i]
	}
}

// Active returns the index of the highlighted item, or -1.
func (s *Session) Active() int {
	if s.Highlighted == nil {
		return -1
	}

	return slices.Index(s.Items, s.Highlighted)
}

// CloseChars returns the characters that end the popup when typed.
func (s *Session) CloseChars() string {
	return s.handler.CloseChars()
}

// Labels formats every item.
func (s *Session) Labels() []ItemLabel {
	labels := make([]ItemLabel, 0, len(s.Items))

	for _, el := range s.Items {
		labels = append(labels, ItemLabel{
			Element: el,
			Label:   s.handler.FormatLabel(el),
			Active:  el == s.Highlighted,
		})
	}

	return labels
}
