// Package engine implements the run-or-raise decision procedure: find a
// window matching the configured criteria and focus it, or launch the
// application and track the windows it creates for a bounded time.
package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/open-dynaMIX/raiseorlaunch/internal/wm"
)

// DefaultEventTimeLimit is how long to listen for new windows after launch
// when no explicit limit is configured.
const DefaultEventTimeLimit = 2 * time.Second

// ConfigError reports an invalid option combination, detected at
// construction and never retried.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Reason
}

// Options configures one run-or-raise invocation.
type Options struct {
	// Command is executed when no matching window is found.
	Command string

	// Criteria select the windows to raise.
	Criteria wm.Criteria

	// Workspace scopes the search to one workspace and doubles as the
	// placement target. TargetWorkspace only targets placement; the
	// search stays global. Setting both to different names is ambiguous.
	Workspace       string
	TargetWorkspace string

	// Scratch raises through the scratchpad and moves newly created
	// windows into it. Mutually exclusive with the workspace options.
	Scratch bool

	// Mark is the con_mark used for lookup when raising and attached to
	// the new window when launching.
	Mark string

	// EventTimeLimit bounds the post-launch event listening phase.
	EventTimeLimit time.Duration

	// Cycle moves focus to the next matching window when one of several
	// matches is already focused.
	Cycle bool

	// LeaveFullscreen clears fullscreen windows on the target workspace
	// before launching.
	LeaveFullscreen bool
}

// target returns the effective placement workspace.
func (o Options) target() string {
	if o.TargetWorkspace != "" {
		return o.TargetWorkspace
	}
	return o.Workspace
}

// needsEventListener reports whether the launch branch has post-launch work
// that requires watching window creation events.
func (o Options) needsEventListener() bool {
	return o.Scratch || o.Mark != "" || o.target() != ""
}

func (o Options) validate() error {
	if o.Criteria.Empty() && o.Mark == "" {
		return &ConfigError{`you need to specify "class", "instance", "title" or a mark`}
	}
	if (o.Workspace != "" || o.TargetWorkspace != "") && o.Scratch {
		return &ConfigError{"you cannot use the scratchpad on a specific workspace"}
	}
	if o.EventTimeLimit <= 0 {
		return &ConfigError{"the event time limit must be positive"}
	}
	if o.Workspace != "" && o.TargetWorkspace != "" && o.Workspace != o.TargetWorkspace {
		return &ConfigError{"setting workspace and target workspace is ambiguous"}
	}
	return nil
}

// Engine drives one find-or-launch-and-track decision. It owns no state
// across invocations; each Run fetches a fresh snapshot and communicates
// with the outside world only through the client.
type Engine struct {
	client  wm.Client
	opts    Options
	matcher *wm.Matcher
	log     zerolog.Logger

	// captured once at the start of Run, before any mutation
	currentWorkspace string
}

// New validates the options and creates an engine. Option violations are
// reported as *ConfigError.
func New(client wm.Client, opts Options, log zerolog.Logger) (*Engine, error) {
	if opts.EventTimeLimit == 0 {
		opts.EventTimeLimit = DefaultEventTimeLimit
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	matcher, err := wm.NewMatcher(opts.Criteria)
	if err != nil {
		return nil, &ConfigError{err.Error()}
	}
	return &Engine{
		client:  client,
		opts:    opts,
		matcher: matcher,
		log:     log,
	}, nil
}

// Run searches for a running window that matches the configured criteria
// and acts accordingly. All outcomes are observed through the client's
// side effects.
func (e *Engine) Run() error {
	ws, err := e.client.FocusedWorkspace()
	if err != nil {
		return err
	}
	e.currentWorkspace = ws

	finder := wm.NewFinder(e.client, e.matcher, e.opts.Mark, wm.Scope{
		Workspace:  e.opts.Workspace,
		Scratchpad: e.opts.Scratch,
	}, e.log)

	matches, err := finder.Find()
	if err != nil {
		return err
	}
	if len(matches) > 0 {
		return e.raise(matches)
	}
	e.log.Debug().Msg("application is not running")
	return e.launch()
}

// raise focuses an already running match. No process is launched and no
// events are listened for on this branch.
func (e *Engine) raise(matches []*wm.Window) error {
	if e.opts.Cycle && len(matches) > 1 {
		if next := wm.CycleNext(matches); next != nil {
			e.log.Debug().Stringer("window", next).Msg("cycling through matching windows")
			return e.focus(next)
		}
	}

	window := wm.Choose(matches, e.opts.target())
	e.log.Debug().
		Stringer("window", window).
		Str("workspace", window.Workspace).
		Msg("application is running")

	if e.opts.Scratch {
		return e.raiseScratch(window)
	}
	return e.raiseNoScratch(window)
}

func (e *Engine) raiseNoScratch(window *wm.Window) error {
	if !window.Focused {
		return e.focus(window)
	}
	ws, err := e.client.FocusedWorkspace()
	if err != nil {
		return err
	}
	if ws == e.currentWorkspace {
		// Deliberate no-op switch: invoking twice in a row on the same
		// target keeps the window manager's workspace_back_and_forth
		// working.
		e.log.Debug().Str("workspace", ws).Msg("already on the right workspace, switching anyway")
		return e.client.Command("workspace " + e.currentWorkspace)
	}
	return nil
}

// raiseScratch toggles visibility of a scratchpad match. A focused match
// always gets scratchpad show so repeated invocations toggle rather than
// pile up.
func (e *Engine) raiseScratch(window *wm.Window) error {
	if !window.Focused && window.Workspace == e.currentWorkspace {
		return e.focus(window)
	}
	return e.showScratch(window)
}

// launch starts the application and, when placement work is pending,
// listens for the windows it creates until the time limit elapses.
func (e *Engine) launch() error {
	target := e.opts.target()
	if target != "" && target != e.currentWorkspace {
		e.log.Debug().Str("workspace", target).Msg("switching to workspace")
		if err := e.client.Command("workspace " + target); err != nil {
			return err
		}
	}

	if e.opts.LeaveFullscreen {
		ws := target
		if ws == "" {
			ws = e.currentWorkspace
		}
		if err := e.leaveFullscreenOnWorkspace(ws); err != nil {
			return err
		}
	}

	listen := e.opts.needsEventListener()
	if listen {
		// Subscribe before exec so no window creation is missed.
		if err := e.client.SubscribeWindowNew(e.onNewWindow); err != nil {
			return err
		}
	}

	command := "exec " + e.opts.Command
	e.log.Debug().Str("command", command).Msg("executing command")
	if err := e.client.Command(command); err != nil {
		return err
	}

	if !listen {
		return nil
	}
	return e.client.RunEventLoop(e.opts.EventTimeLimit)
}

// onNewWindow handles one window::new event while listening. It keeps
// consuming events until the time limit elapses; a launched application
// may create more than one window.
func (e *Engine) onNewWindow(window *wm.Window) {
	e.log.Debug().Stringer("window", window).Msg("event callback")
	if !e.matcher.Matches(window) {
		return
	}

	if e.opts.Scratch {
		e.moveScratch(window)
		e.showScratch(window)
	}
	if e.opts.Mark != "" {
		e.log.Debug().Stringer("window", window).Str("mark", e.opts.Mark).Msg("setting mark")
		e.windowCommand(window, "mark "+e.opts.Mark)
	}
	if target := e.opts.target(); target != "" {
		// The event payload carries no workspace; resolve it from a
		// fresh snapshot.
		tree, err := e.client.GetTree()
		if err != nil {
			e.log.Error().Err(err).Msg("failed to fetch tree for new window")
			return
		}
		if fresh := tree.FindByID(window.ID); fresh != nil && fresh.Workspace != target {
			e.log.Debug().Str("workspace", target).Msg("moving window to workspace")
			e.windowCommand(fresh, "move container to workspace "+target)
		}
	}
}

func (e *Engine) focus(window *wm.Window) error {
	e.log.Debug().Stringer("window", window).Msg("focusing window")
	return e.client.Command(window.ConCommand("focus"))
}

// moveScratch floats the window before moving it, which retains the window
// geometry (e.g. when using xterm -geometry).
func (e *Engine) moveScratch(window *wm.Window) {
	e.log.Debug().Stringer("window", window).Msg("moving new window to the scratchpad")
	e.windowCommand(window, "floating enable")
	e.windowCommand(window, "move scratchpad")
}

func (e *Engine) showScratch(window *wm.Window) error {
	e.log.Debug().Stringer("window", window).Msg("toggling visibility of scratch window")
	return e.client.Command(window.ConCommand("scratchpad show"))
}

func (e *Engine) leaveFullscreenOnWorkspace(workspace string) error {
	tree, err := e.client.GetTree()
	if err != nil {
		return err
	}
	for _, w := range tree.FullscreenLeaves(workspace) {
		e.log.Debug().Stringer("window", w).Msg("leaving fullscreen")
		if err := e.client.Command(w.ConCommand("fullscreen disable")); err != nil {
			return err
		}
	}
	return nil
}

// windowCommand issues a command addressed at the window, logging instead
// of failing: the event phase is fire-and-forget.
func (e *Engine) windowCommand(window *wm.Window, cmd string) {
	if err := e.client.Command(window.ConCommand(cmd)); err != nil {
		e.log.Error().Err(err).Str("cmd", cmd).Stringer("window", window).Msg("window command failed")
	}
}
