package wm

import "time"

// Client is the capability the core needs from a window manager: tree and
// workspace queries, command issuance and window-creation events. The
// concrete IPC transport lives elsewhere; the core never sees the framing.
type Client interface {
	// GetTree fetches a fresh snapshot of the window tree.
	GetTree() (*Snapshot, error)

	// FocusedWorkspace returns the name of the currently focused workspace.
	FocusedWorkspace() (string, error)

	// FindMarked returns the windows carrying exactly the given mark,
	// in tree traversal order.
	FindMarked(mark string) ([]*Window, error)

	// Command issues a command string in the window manager's command
	// language, e.g. "workspace 2" or "[con_id=1] scratchpad show".
	Command(cmd string) error

	// SubscribeWindowNew registers a callback for newly created windows.
	// It must be called before the command that spawns the window.
	SubscribeWindowNew(fn func(*Window)) error

	// RunEventLoop processes subscribed events until the timeout elapses.
	// Expiry of the timeout is the normal return, not an error.
	RunEventLoop(timeout time.Duration) error
}
