package i3

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-dynaMIX/raiseorlaunch/internal/wm"
)

// treeFixture is a trimmed GET_TREE reply: two outputs, a scratchpad
// workspace with a hidden floating window, two regular workspaces, a
// dockarea with an i3bar, and one window without X11 properties.
const treeFixture = `{
  "id": 1, "name": "root", "type": "root",
  "nodes": [
    {
      "id": 2, "name": "__i3", "type": "output",
      "nodes": [
        {
          "id": 3, "name": "__i3_scratch", "type": "workspace",
          "nodes": [],
          "floating_nodes": [
            {
              "id": 4, "name": null, "type": "floating_con", "scratchpad_state": "changed",
              "nodes": [
                {
                  "id": 5, "name": "scratch-term", "type": "con",
                  "scratchpad_state": "none", "fullscreen_mode": 0, "focused": false,
                  "marks": [],
                  "window_properties": {"class": "URxvt", "instance": "scratchterm", "title": "scratch-term"},
                  "nodes": [], "floating_nodes": []
                }
              ],
              "floating_nodes": []
            }
          ]
        }
      ]
    },
    {
      "id": 10, "name": "eDP-1", "type": "output",
      "nodes": [
        {
          "id": 11, "name": "topdock", "type": "dockarea",
          "nodes": [
            {"id": 12, "name": "i3bar", "type": "con", "window_properties": {"class": "i3bar", "instance": "i3bar", "title": "i3bar"}, "nodes": [], "floating_nodes": []}
          ],
          "floating_nodes": []
        },
        {
          "id": 20, "name": "1", "type": "workspace",
          "nodes": [
            {
              "id": 21, "name": "example.org - qutebrowser", "type": "con",
              "focused": true, "fullscreen_mode": 0, "marks": ["browser"],
              "window_properties": {"class": "qutebrowser", "instance": "qutebrowser", "title": "example.org - qutebrowser"},
              "nodes": [], "floating_nodes": []
            },
            {
              "id": 22, "name": "mpv", "type": "con",
              "focused": false, "fullscreen_mode": 1, "marks": [],
              "window_properties": {"class": "mpv", "instance": "gl", "title": "mpv"},
              "nodes": [], "floating_nodes": []
            }
          ],
          "floating_nodes": [
            {
              "id": 23, "name": null, "type": "floating_con", "scratchpad_state": "none",
              "nodes": [
                {"id": 24, "name": "Picture-in-Picture", "type": "con", "window_properties": {"class": "firefox", "instance": "Toolkit", "title": "Picture-in-Picture"}, "nodes": [], "floating_nodes": []}
              ],
              "floating_nodes": []
            }
          ]
        },
        {
          "id": 30, "name": "2", "type": "workspace",
          "nodes": [
            {"id": 31, "name": "no-props", "type": "con", "nodes": [], "floating_nodes": []}
          ],
          "floating_nodes": []
        }
      ]
    }
  ]
}`

func parseFixture(t *testing.T) *wm.Snapshot {
	t.Helper()
	var root node
	require.NoError(t, json.Unmarshal([]byte(treeFixture), &root))
	return buildSnapshot(&root)
}

func TestBuildSnapshotOrderAndMembership(t *testing.T) {
	tree := parseFixture(t)

	var ids []int64
	for _, w := range tree.Leaves() {
		ids = append(ids, w.ID)
	}
	// Document order: scratch output first, then tiled nodes before
	// floating nodes per workspace. The i3bar lives in a dockarea and is
	// not a window.
	assert.Equal(t, []int64{5, 21, 22, 24, 31}, ids)
}

func TestBuildSnapshotWorkspaces(t *testing.T) {
	tree := parseFixture(t)

	browser := tree.FindByID(21)
	require.NotNil(t, browser)
	assert.Equal(t, "1", browser.Workspace)
	assert.True(t, browser.Focused)
	assert.Equal(t, []string{"browser"}, browser.Marks)
	require.NotNil(t, browser.Class)
	assert.Equal(t, "qutebrowser", *browser.Class)

	scratch := tree.FindByID(5)
	require.NotNil(t, scratch)
	assert.Equal(t, "__i3_scratch", scratch.Workspace)
	assert.Equal(t, wm.ScratchpadChanged, scratch.Scratchpad)

	floating := tree.FindByID(24)
	require.NotNil(t, floating)
	assert.Equal(t, "1", floating.Workspace)
	assert.Equal(t, wm.ScratchpadNone, floating.Scratchpad)
}

func TestBuildSnapshotScratchpadLeaves(t *testing.T) {
	tree := parseFixture(t)

	leaves := tree.ScratchpadLeaves()
	require.Len(t, leaves, 1)
	assert.Equal(t, int64(5), leaves[0].ID)
}

func TestBuildSnapshotFullscreen(t *testing.T) {
	tree := parseFixture(t)

	full := tree.FullscreenLeaves("1")
	require.Len(t, full, 1)
	assert.Equal(t, int64(22), full[0].ID)
	assert.Empty(t, tree.FullscreenLeaves("2"))
}

func TestBuildSnapshotMissingProperties(t *testing.T) {
	tree := parseFixture(t)

	w := tree.FindByID(31)
	require.NotNil(t, w)
	assert.Nil(t, w.Class)
	assert.Nil(t, w.Instance)
	// the container name still serves as the title
	require.NotNil(t, w.Title)
	assert.Equal(t, "no-props", *w.Title)
}

func TestBuildSnapshotMarked(t *testing.T) {
	tree := parseFixture(t)

	marked := tree.Marked("browser")
	require.Len(t, marked, 1)
	assert.Equal(t, int64(21), marked[0].ID)
	assert.Empty(t, tree.Marked("nope"))
}

func TestEventContainerToWindow(t *testing.T) {
	payload := `{
	  "id": 99, "name": "new window", "type": "con",
	  "window_properties": {"class": "Signal", "instance": "signal"},
	  "nodes": [], "floating_nodes": []
	}`
	var n node
	require.NoError(t, json.Unmarshal([]byte(payload), &n))

	w := n.toWindow("", wm.ScratchpadNone)
	assert.Equal(t, int64(99), w.ID)
	require.NotNil(t, w.Class)
	assert.Equal(t, "Signal", *w.Class)
	require.NotNil(t, w.Title)
	assert.Equal(t, "new window", *w.Title)
	assert.Empty(t, w.Workspace)
}
