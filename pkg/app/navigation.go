package app

// FocusRing tracks which widget has keyboard focus and which, if any, is
// expanded to fill the body.
type FocusRing struct {
	ids      []string
	focused  int
	expanded int // -1 when nothing is expanded
}

// NewFocusRing creates a ring over ids with focus on the first one.
func NewFocusRing(ids ...string) *FocusRing {
	return &FocusRing{ids: append([]string(nil), ids...), expanded: -1}
}

// Len returns the number of widgets in the ring.
func (f *FocusRing) Len() int { return len(f.ids) }

// Focused returns the focused index, or -1 for an empty ring.
func (f *FocusRing) Focused() int {
	if len(f.ids) == 0 {
		return -1
	}
	return f.focused
}

// FocusedID returns the focused widget's ID, or "".
func (f *FocusRing) FocusedID() string {
	if len(f.ids) == 0 {
		return ""
	}
	return f.ids[f.focused]
}

// Next moves focus forward, wrapping after the last widget.
func (f *FocusRing) Next() {
	if len(f.ids) == 0 {
		return
	}
	f.focused = (f.focused + 1) % len(f.ids)
}

// Prev moves focus backward, wrapping before the first widget.
func (f *FocusRing) Prev() {
	if len(f.ids) == 0 {
		return
	}
	f.focused = (f.focused - 1 + len(f.ids)) % len(f.ids)
}

// Focus sets focus to id. Unknown IDs are ignored.
func (f *FocusRing) Focus(id string) bool {
	for i, v := range f.ids {
		if v == id {
			f.focused = i
			return true
		}
	}
	return false
}

// ToggleExpand expands the focused widget, or collapses it when it is
// already expanded.
func (f *FocusRing) ToggleExpand() {
	if len(f.ids) == 0 {
		return
	}
	if f.expanded == f.focused {
		f.expanded = -1
		return
	}
	f.expanded = f.focused
}

// Collapse clears the expanded widget. It reports whether anything was
// expanded.
func (f *FocusRing) Collapse() bool {
	if f.expanded < 0 {
		return false
	}
	f.expanded = -1
	return true
}

// Expanded returns the expanded index, or -1.
func (f *FocusRing) Expanded() int { return f.expanded }

// ExpandedID returns the expanded widget's ID, or "".
func (f *FocusRing) ExpandedID() string {
	if f.expanded < 0 {
		return ""
	}
	return f.ids[f.expanded]
}
