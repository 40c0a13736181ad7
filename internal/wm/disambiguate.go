package wm

// Choose selects the window to act on from a non-empty match set. A single
// match is returned as is. With multiple matches and a target workspace,
// the first match on that workspace wins; otherwise the first in tree
// order. The tree-order tie-break is kept for compatibility with the
// window manager's traversal order.
func Choose(matches []*Window, targetWorkspace string) *Window {
	if len(matches) == 1 {
		return matches[0]
	}
	if targetWorkspace != "" {
		for _, w := range matches {
			if w.Workspace == targetWorkspace {
				return w
			}
		}
	}
	return matches[0]
}

// CycleNext returns the successor of the currently focused match, treating
// the match set as circular. It returns nil when no match is focused, in
// which case cycling does not apply.
func CycleNext(matches []*Window) *Window {
	for i, w := range matches {
		if w.Focused {
			return matches[(i+1)%len(matches)]
		}
	}
	return nil
}
