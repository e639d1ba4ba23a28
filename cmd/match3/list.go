package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available modes",
	Long:  `Shows every registered game mode.`,
	RunE:  runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	modes := registry.List()
	out := cmd.OutOrStdout()

	if len(modes) == 0 {
		fmt.Fprintln(out, "No modes available.")
		return nil
	}

	fmt.Fprintln(out, "Available modes:")
	fmt.Fprintln(out)

	idWidth, titleWidth := len("ID"), len("Title")
	for _, m := range modes {
		idWidth = max(idWidth, len(m.ID))
		titleWidth = max(titleWidth, len(m.Title))
	}

	fmt.Fprintf(out, "  %-*s  %-*s  %s\n", idWidth, "ID", titleWidth, "Title", "Description")
	fmt.Fprintf(out, "  %-*s  %-*s  %s\n", idWidth, "--", titleWidth, "-----", "-----------")
	for _, m := range modes {
		fmt.Fprintf(out, "  %-*s  %-*s  %s\n", idWidth, m.ID, titleWidth, m.Title, m.Description)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'match3 play <id>' to play a mode.")
	return nil
}
