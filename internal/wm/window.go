// Package wm contains the window-matching core: the snapshot of the window
// tree, the criteria matcher, the candidate finder and the disambiguation
// rules that decide which window to raise.
package wm

import "fmt"

// ScratchpadState describes the scratchpad membership of a container.
type ScratchpadState string

const (
	ScratchpadNone    ScratchpadState = "none"
	ScratchpadFresh   ScratchpadState = "fresh"
	ScratchpadChanged ScratchpadState = "changed"
)

// InScratchpad reports whether a container with this state is resident in
// the scratchpad.
func (s ScratchpadState) InScratchpad() bool {
	return s == ScratchpadFresh || s == ScratchpadChanged
}

// Window is a handle to one leaf window of a tree snapshot. Class, Instance
// and Title are nil when the window does not expose the property; a missing
// property never satisfies a criterion. Handles are only valid for the
// snapshot they were taken from and are never reused across decisions.
type Window struct {
	ID         int64
	Class      *string
	Instance   *string
	Title      *string
	Focused    bool
	Fullscreen bool
	Workspace  string
	Scratchpad ScratchpadState
	Marks      []string
}

// HasProperties reports whether the window exposes at least one identifying
// property. Windows without any are skipped before matching.
func (w *Window) HasProperties() bool {
	return w.Class != nil || w.Instance != nil || w.Title != nil
}

// HasMark reports whether the window carries the given mark.
func (w *Window) HasMark(mark string) bool {
	for _, m := range w.Marks {
		if m == mark {
			return true
		}
	}
	return false
}

// ConCommand renders a command addressed at this window in the window
// manager's command language, e.g. `[con_id=123] focus`.
func (w *Window) ConCommand(cmd string) string {
	return fmt.Sprintf("[con_id=%d] %s", w.ID, cmd)
}

// String renders the window for logging.
func (w *Window) String() string {
	quote := func(v *string) string {
		if v == nil {
			return "<nil>"
		}
		return fmt.Sprintf("%q", *v)
	}
	return fmt.Sprintf("<con class=%s instance=%s title=%s id=%d>",
		quote(w.Class), quote(w.Instance), quote(w.Title), w.ID)
}

// Snapshot is an immutable view of all leaf windows at one point in time,
// in tree traversal order. The order is significant: it is the tie-break
// for disambiguation and the cycle order.
type Snapshot struct {
	windows []*Window
}

// NewSnapshot builds a snapshot from leaves in tree traversal order.
func NewSnapshot(windows []*Window) *Snapshot {
	return &Snapshot{windows: windows}
}

// Leaves returns every leaf window in tree traversal order.
func (s *Snapshot) Leaves() []*Window {
	return s.windows
}

// WorkspaceLeaves returns the leaves of the named workspace, in tree order.
// An unknown workspace yields an empty result, not an error.
func (s *Snapshot) WorkspaceLeaves(name string) []*Window {
	var leaves []*Window
	for _, w := range s.windows {
		if w.Workspace == name {
			leaves = append(leaves, w)
		}
	}
	return leaves
}

// ScratchpadLeaves returns the leaves resident in the scratchpad.
func (s *Snapshot) ScratchpadLeaves() []*Window {
	var leaves []*Window
	for _, w := range s.windows {
		if w.Scratchpad.InScratchpad() {
			leaves = append(leaves, w)
		}
	}
	return leaves
}

// FullscreenLeaves returns the fullscreen leaves of the named workspace.
func (s *Snapshot) FullscreenLeaves(workspace string) []*Window {
	var leaves []*Window
	for _, w := range s.windows {
		if w.Workspace == workspace && w.Fullscreen {
			leaves = append(leaves, w)
		}
	}
	return leaves
}

// FindByID returns the leaf with the given container id, or nil.
func (s *Snapshot) FindByID(id int64) *Window {
	for _, w := range s.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// Marked returns the leaves carrying the given mark, in tree order.
func (s *Snapshot) Marked(mark string) []*Window {
	var leaves []*Window
	for _, w := range s.windows {
		if w.HasMark(mark) {
			leaves = append(leaves, w)
		}
	}
	return leaves
}
