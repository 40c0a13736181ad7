package wm

import "github.com/rs/zerolog"

// Scope restricts the candidate set of a finder pass. Workspace and
// Scratchpad are mutually exclusive; both empty means every leaf window.
type Scope struct {
	Workspace  string
	Scratchpad bool
}

// Finder builds the candidate window list and filters it through the
// matcher, or performs a direct mark lookup when a mark is configured.
type Finder struct {
	client  Client
	matcher *Matcher
	mark    string
	scope   Scope
	log     zerolog.Logger
}

// NewFinder creates a finder. When mark is non-empty, property matching is
// bypassed entirely in favor of a mark lookup.
func NewFinder(client Client, matcher *Matcher, mark string, scope Scope, log zerolog.Logger) *Finder {
	return &Finder{client: client, matcher: matcher, mark: mark, scope: scope, log: log}
}

// Find returns the matching windows in tree traversal order. An empty
// result is not an error; it drives the launch branch.
func (f *Finder) Find() ([]*Window, error) {
	if f.mark != "" {
		return f.findMarked()
	}
	return f.findByProperties()
}

// findMarked looks up windows by mark. A workspace scope further restricts
// the result: a marked window outside the scope counts as no match.
func (f *Finder) findMarked() ([]*Window, error) {
	found, err := f.client.FindMarked(f.mark)
	if err != nil {
		return nil, err
	}
	if f.scope.Workspace == "" {
		return found, nil
	}
	var scoped []*Window
	for _, w := range found {
		if w.Workspace == f.scope.Workspace {
			scoped = append(scoped, w)
		}
	}
	return scoped, nil
}

func (f *Finder) findByProperties() ([]*Window, error) {
	tree, err := f.client.GetTree()
	if err != nil {
		return nil, err
	}

	var candidates []*Window
	switch {
	case f.scope.Workspace != "":
		f.log.Debug().Str("workspace", f.scope.Workspace).Msg("getting list of windows on workspace")
		candidates = tree.WorkspaceLeaves(f.scope.Workspace)
	case f.scope.Scratchpad:
		f.log.Debug().Msg("getting list of scratchpad windows")
		candidates = tree.ScratchpadLeaves()
	default:
		f.log.Debug().Msg("getting list of windows")
		candidates = tree.Leaves()
	}

	var found []*Window
	for _, w := range candidates {
		if !w.HasProperties() {
			f.log.Debug().Msg("window without any properties found")
			continue
		}
		if f.matcher.Matches(w) {
			f.log.Debug().Stringer("window", w).Msg("window match")
			found = append(found, w)
		}
	}
	if len(found) > 1 {
		f.log.Debug().Int("count", len(found)).Msg("multiple windows match the properties")
	}
	return found, nil
}
