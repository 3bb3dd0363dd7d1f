// Remove command deletes a todo.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pantry/pkg/action"
)

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a todo",
	Long: `Remove deletes the todo with the given id on the remote API.

Example:
  pantry remove 12`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	s, err := buildStore()
	if err != nil {
		return fmt.Errorf("build store: %w", err)
	}

	del, err := s.Action("delete")
	if err != nil {
		return err
	}
	if _, err := del.Call(cmd.Context(), action.CallOptions{
		Params: map[string]string{"id": args[0]},
	}); err != nil {
		return fmt.Errorf("delete todo %s: %w", args[0], err)
	}

	fmt.Printf("deleted todo %s\n", args[0])
	return nil
}
