// Show command fetches a single todo by id.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pantry/pkg/action"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Fetch and print one todo",
	Long: `Show fetches the todo with the given id into the store's current slot
and prints it.

Example:
  pantry show 12`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := buildStore()
	if err != nil {
		return fmt.Errorf("build store: %w", err)
	}

	fetchOne, err := s.Action("fetchOne")
	if err != nil {
		return err
	}
	if _, err := fetchOne.Call(cmd.Context(), action.CallOptions{
		Params: map[string]string{"id": args[0]},
	}); err != nil {
		return fmt.Errorf("fetch todo %s: %w", args[0], err)
	}

	current, err := s.Unit("current")
	if err != nil {
		return err
	}
	return printValue(current.Get())
}
