package wm

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient serves a canned snapshot.
type fakeClient struct {
	tree *Snapshot
}

func (f *fakeClient) GetTree() (*Snapshot, error)       { return f.tree, nil }
func (f *fakeClient) FocusedWorkspace() (string, error) { return "1", nil }
func (f *fakeClient) FindMarked(mark string) ([]*Window, error) {
	return f.tree.Marked(mark), nil
}
func (f *fakeClient) Command(cmd string) error                  { return nil }
func (f *fakeClient) SubscribeWindowNew(fn func(*Window)) error { return nil }
func (f *fakeClient) RunEventLoop(timeout time.Duration) error  { return nil }

func testSnapshot() *Snapshot {
	return NewSnapshot([]*Window{
		{ID: 1, Class: strp("qutebrowser"), Instance: strp("qutebrowser"), Title: strp("example.org"), Workspace: "1"},
		{ID: 2, Class: strp("URxvt"), Instance: strp("urxvt"), Title: strp("shell"), Workspace: "1", Focused: true},
		{ID: 3, Class: strp("qutebrowser"), Instance: strp("qutebrowser"), Title: strp("github.com"), Workspace: "2"},
		{ID: 4, Workspace: "2"}, // no identifying properties at all
		{ID: 5, Class: strp("URxvt"), Instance: strp("scratchterm"), Title: strp("scratch"), Workspace: "__i3_scratch", Scratchpad: ScratchpadChanged},
		{ID: 6, Class: strp("Thunderbird"), Title: strp("Inbox"), Workspace: "3", Marks: []string{"pinned"}},
	})
}

func newTestFinder(t *testing.T, client Client, criteria Criteria, mark string, scope Scope) *Finder {
	t.Helper()
	m, err := NewMatcher(criteria)
	require.NoError(t, err)
	return NewFinder(client, m, mark, scope, zerolog.Nop())
}

func windowIDs(windows []*Window) []int64 {
	ids := make([]int64, 0, len(windows))
	for _, w := range windows {
		ids = append(ids, w.ID)
	}
	return ids
}

func TestFinderGlobalScope(t *testing.T) {
	client := &fakeClient{tree: testSnapshot()}
	f := newTestFinder(t, client, Criteria{Class: "qutebrowser"}, "", Scope{})

	found, err := f.Find()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, windowIDs(found), "matches in tree traversal order")
}

func TestFinderWorkspaceScope(t *testing.T) {
	client := &fakeClient{tree: testSnapshot()}
	f := newTestFinder(t, client, Criteria{Class: "qutebrowser"}, "", Scope{Workspace: "2"})

	found, err := f.Find()
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, windowIDs(found))
}

func TestFinderMissingWorkspaceIsEmptyNotError(t *testing.T) {
	client := &fakeClient{tree: testSnapshot()}
	f := newTestFinder(t, client, Criteria{Class: ".*"}, "", Scope{Workspace: "does-not-exist"})

	found, err := f.Find()
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFinderScratchpadScope(t *testing.T) {
	client := &fakeClient{tree: testSnapshot()}
	f := newTestFinder(t, client, Criteria{Class: "URxvt"}, "", Scope{Scratchpad: true})

	found, err := f.Find()
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, windowIDs(found), "only scratchpad-resident windows qualify")
}

func TestFinderSkipsPropertylessWindows(t *testing.T) {
	client := &fakeClient{tree: testSnapshot()}
	f := newTestFinder(t, client, Criteria{}, "", Scope{Workspace: "2"})

	found, err := f.Find()
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, windowIDs(found), "window 4 has no properties and is never a candidate")
}

func TestFinderMarkMode(t *testing.T) {
	client := &fakeClient{tree: testSnapshot()}

	t.Run("mark bypasses property matching", func(t *testing.T) {
		// criteria would never match the marked window
		f := newTestFinder(t, client, Criteria{Class: "qutebrowser"}, "pinned", Scope{})
		found, err := f.Find()
		require.NoError(t, err)
		assert.Equal(t, []int64{6}, windowIDs(found))
	})

	t.Run("workspace mismatch disqualifies the mark hit", func(t *testing.T) {
		f := newTestFinder(t, client, Criteria{}, "pinned", Scope{Workspace: "2"})
		found, err := f.Find()
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("workspace match keeps the mark hit", func(t *testing.T) {
		f := newTestFinder(t, client, Criteria{}, "pinned", Scope{Workspace: "3"})
		found, err := f.Find()
		require.NoError(t, err)
		assert.Equal(t, []int64{6}, windowIDs(found))
	})

	t.Run("unknown mark finds nothing", func(t *testing.T) {
		f := newTestFinder(t, client, Criteria{}, "nope", Scope{})
		found, err := f.Find()
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}
