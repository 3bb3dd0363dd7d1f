// Shared store wiring and output helpers for pantry CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mesh-intelligence/pantry/pkg/action"
	"github.com/mesh-intelligence/pantry/pkg/model"
	"github.com/mesh-intelligence/pantry/pkg/shape"
	"github.com/mesh-intelligence/pantry/pkg/store"
	"github.com/mesh-intelligence/pantry/pkg/transport"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// todoShape maps the local field names onto the remote API's wire names.
var todoShape = shape.New("todo").
	Field("id", shape.Identifier()).
	Field("title").
	Field("done", shape.Alias("completed"), shape.Default(false)).
	MustBuild()

// buildStore wires the todo store against the configured API.
func buildStore() (*store.Store, error) {
	return store.New("todos").
		Transport(transport.New(flagBaseURL)).
		Logger(logger).
		Collection("list", model.Definition{Shape: todoShape}).
		Unit("current", model.Definition{Shape: todoShape}).
		View("pending", store.ViewDef{
			Sources: []string{"list"},
			Resolver: func(values ...any) any {
				list, _ := values[0].([]types.Entity)
				out := []types.Entity{}
				for _, e := range list {
					if done, _ := e["done"].(bool); !done {
						out = append(out, e)
					}
				}
				return out
			},
		}).
		Action("fetch", action.Definition{
			Request: &action.RequestSpec{Method: "GET", URL: "/todos", Timeout: callTimeout},
			Commit:  &action.CommitSpec{Target: "list"},
			Shape:   todoShape,
		}).
		Action("fetchOne", action.Definition{
			Request: &action.RequestSpec{Method: "GET", URL: "/todos/:id", Timeout: callTimeout},
			Commit:  &action.CommitSpec{Target: "current"},
			Shape:   todoShape,
		}).
		Action("create", action.Definition{
			Request: &action.RequestSpec{Method: "POST", URL: "/todos", Timeout: callTimeout},
			Commit:  &action.CommitSpec{Target: "list"},
			Shape:   todoShape,
		}).
		Action("update", action.Definition{
			Request: &action.RequestSpec{Method: "PATCH", URL: "/todos/:id", Timeout: callTimeout},
			Commit:  &action.CommitSpec{Target: "list"},
			Shape:   todoShape,
		}).
		Action("delete", action.Definition{
			Request: &action.RequestSpec{Method: "DELETE", URL: "/todos/:id", Timeout: callTimeout},
			Commit:  &action.CommitSpec{Target: "list"},
			Shape:   todoShape,
		}).
		Build()
}

// printValue renders a result as JSON or as a tab-aligned table, depending
// on the --json flag.
func printValue(v any) error {
	if flagJSON {
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}
	switch val := v.(type) {
	case []types.Entity:
		return printTable(val)
	case types.Entity:
		return printTable([]types.Entity{val})
	default:
		fmt.Println(val)
		return nil
	}
}

func printTable(list []types.Entity) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tTITLE")
	for _, e := range list {
		fmt.Fprintf(w, "%v\t%v\t%v\n", e["id"], e["done"], e["title"])
	}
	return w.Flush()
}
