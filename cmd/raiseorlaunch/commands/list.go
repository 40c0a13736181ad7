package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/open-dynaMIX/raiseorlaunch/internal/i3"
	"github.com/open-dynaMIX/raiseorlaunch/internal/wm"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the windows of the running i3 session",
	Long: `List every leaf window of the live i3 tree with the properties the
matcher sees: class, instance, title, workspace, marks and scratchpad
state. Useful for figuring out what to pass to --class and friends.`,
	Example: `  # List windows in table format (default)
  raiseorlaunch list

  # List windows in JSON format
  raiseorlaunch list --format json`,
	RunE: runList,
}

var listFormat string

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFormat, "format", "F", "table", "output format (table or json)")
}

// listEntry is the serializable view of one window.
type listEntry struct {
	ID         int64    `json:"id"`
	Class      *string  `json:"class"`
	Instance   *string  `json:"instance"`
	Title      *string  `json:"title"`
	Workspace  string   `json:"workspace"`
	Focused    bool     `json:"focused"`
	Scratchpad string   `json:"scratchpad_state"`
	Marks      []string `json:"marks,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := i3.Connect()
	if err != nil {
		return err
	}
	defer client.Close()

	tree, err := client.GetTree()
	if err != nil {
		return fmt.Errorf("failed to get window tree: %w", err)
	}

	entries := make([]listEntry, 0, len(tree.Leaves()))
	for _, w := range tree.Leaves() {
		entries = append(entries, listEntry{
			ID:         w.ID,
			Class:      w.Class,
			Instance:   w.Instance,
			Title:      w.Title,
			Workspace:  w.Workspace,
			Focused:    w.Focused,
			Scratchpad: string(w.Scratchpad),
			Marks:      w.Marks,
		})
	}

	switch listFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "table":
		return printWindowsTable(entries)
	default:
		return fmt.Errorf("unsupported format: %s (use 'table' or 'json')", listFormat)
	}
}

func printWindowsTable(entries []listEntry) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	deref := func(v *string) string {
		if v == nil {
			return "-"
		}
		return *v
	}

	fmt.Fprintln(w, "WORKSPACE\tCLASS\tINSTANCE\tTITLE\tFOCUSED\tMARKS")
	fmt.Fprintln(w, "---------\t-----\t--------\t-----\t-------\t-----")
	for _, e := range entries {
		focused := ""
		if e.Focused {
			focused = "*"
		}
		if e.Scratchpad != string(wm.ScratchpadNone) {
			e.Workspace = "(scratchpad)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Workspace, deref(e.Class), deref(e.Instance), deref(e.Title),
			focused, strings.Join(e.Marks, ","))
	}
	return nil
}
