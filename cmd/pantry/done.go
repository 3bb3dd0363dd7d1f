// Done command marks a todo completed.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pantry/pkg/action"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a todo done",
	Long: `Done patches the todo with the given id on the remote API, setting its
done flag, and prints the updated entity.

Example:
  pantry done 12`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

func runDone(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid id %q (expected a number)", args[0])
	}

	s, err := buildStore()
	if err != nil {
		return fmt.Errorf("build store: %w", err)
	}

	update, err := s.Action("update")
	if err != nil {
		return err
	}
	result, err := update.Call(cmd.Context(), action.CallOptions{
		Params: map[string]string{"id": args[0]},
		Body:   types.Entity{"id": id, "done": true},
	})
	if err != nil {
		return fmt.Errorf("update todo %d: %w", id, err)
	}
	return printValue(result)
}
