package i3

import (
	"github.com/open-dynaMIX/raiseorlaunch/internal/wm"
)

// node is one container of the i3 layout tree as serialized by GET_TREE.
// Only the fields the launcher consumes are decoded.
type node struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	Type             string            `json:"type"`
	Focused          bool              `json:"focused"`
	FullscreenMode   int               `json:"fullscreen_mode"`
	ScratchpadState  string            `json:"scratchpad_state"`
	Marks            []string          `json:"marks"`
	WindowProperties *windowProperties `json:"window_properties"`
	Nodes            []*node           `json:"nodes"`
	FloatingNodes    []*node           `json:"floating_nodes"`
}

// windowProperties mirrors the X11 properties i3 attaches to a window
// container. Fields are pointers: a property the window does not expose is
// absent, not empty.
type windowProperties struct {
	Class    *string `json:"class"`
	Instance *string `json:"instance"`
	Title    *string `json:"title"`
}

// isLeaf reports whether the node is an actual application window rather
// than a layout container. Floating windows are plain cons wrapped in a
// floating_con parent.
func (n *node) isLeaf() bool {
	return n.Type == "con" && len(n.Nodes) == 0 && len(n.FloatingNodes) == 0
}

// toWindow converts a window container into a handle. The workspace name
// is supplied by the caller; event payloads carry none.
func (n *node) toWindow(workspace string, scratchpad wm.ScratchpadState) *wm.Window {
	w := &wm.Window{
		ID:         n.ID,
		Focused:    n.Focused,
		Fullscreen: n.FullscreenMode != 0,
		Workspace:  workspace,
		Scratchpad: scratchpad,
		Marks:      n.Marks,
	}
	if n.WindowProperties != nil {
		w.Class = n.WindowProperties.Class
		w.Instance = n.WindowProperties.Instance
	}
	// i3 keeps the current window title in the container name; the
	// window_properties title lags behind.
	if n.Name != "" {
		name := n.Name
		w.Title = &name
	} else if n.WindowProperties != nil {
		w.Title = n.WindowProperties.Title
	}
	return w
}

// buildSnapshot flattens the container tree into leaf windows in document
// order: child nodes first, then floating nodes, at every level. The order
// is the tie-break contract of the snapshot.
func buildSnapshot(root *node) *wm.Snapshot {
	var leaves []*wm.Window

	var walk func(n, parent *node, workspace string)
	walk = func(n, parent *node, workspace string) {
		if n.Type == "workspace" {
			workspace = n.Name
		}
		if n.isLeaf() && parent != nil && parent.Type != "dockarea" {
			scratchpad := wm.ScratchpadNone
			if parent.ScratchpadState != "" {
				scratchpad = wm.ScratchpadState(parent.ScratchpadState)
			}
			leaves = append(leaves, n.toWindow(workspace, scratchpad))
			return
		}
		for _, child := range n.Nodes {
			walk(child, n, workspace)
		}
		for _, child := range n.FloatingNodes {
			walk(child, n, workspace)
		}
	}
	walk(root, nil, "")

	return wm.NewSnapshot(leaves)
}
