// List command fetches todos and prints them.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pantry/pkg/action"
)

var flagPending bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Fetch and print todos",
	Long: `List fetches todos from the remote API into the store and prints them.

Example:
  pantry list
  pantry list --pending
  pantry list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&flagPending, "pending", false, "only todos not yet done")
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := buildStore()
	if err != nil {
		return fmt.Errorf("build store: %w", err)
	}

	fetch, err := s.Action("fetch")
	if err != nil {
		return err
	}
	if _, err := fetch.Call(cmd.Context(), action.CallOptions{}); err != nil {
		return fmt.Errorf("fetch todos: %w", err)
	}

	if flagPending {
		pending, err := s.View("pending")
		if err != nil {
			return err
		}
		return printValue(pending.Get())
	}

	list, err := s.Collection("list")
	if err != nil {
		return err
	}
	return printValue(list.Get())
}
