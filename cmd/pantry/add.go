// Add command creates a todo on the remote API.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pantry/pkg/action"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a todo",
	Long: `Add posts a new todo to the remote API and prints the created entity
as the server returned it.

Example:
  pantry add "buy milk"`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, err := buildStore()
	if err != nil {
		return fmt.Errorf("build store: %w", err)
	}

	create, err := s.Action("create")
	if err != nil {
		return err
	}
	result, err := create.Call(cmd.Context(), action.CallOptions{
		Body: types.Entity{"title": args[0], "done": false},
	})
	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return printValue(result)
}
