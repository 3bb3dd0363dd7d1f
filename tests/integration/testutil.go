// Package integration exercises the full store stack — shape translation,
// transport, action lifecycle, commits, and views — against a real HTTP
// server backed by an in-memory todo table.
package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mesh-intelligence/pantry/pkg/action"
	"github.com/mesh-intelligence/pantry/pkg/model"
	"github.com/mesh-intelligence/pantry/pkg/shape"
	"github.com/mesh-intelligence/pantry/pkg/store"
	"github.com/mesh-intelligence/pantry/pkg/transport"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// wireTodo is the server-side representation. The wire field name for the
// done flag intentionally differs from the store's internal one, so the
// suite verifies alias translation end to end.
type wireTodo struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// todoServer is an in-memory HTTP todo API.
type todoServer struct {
	mu     sync.Mutex
	nextID int
	todos  []wireTodo

	// delay holds each handler before responding, for timeout and
	// concurrency scenarios.
	delay time.Duration
}

func newTodoServer(seed ...wireTodo) *todoServer {
	s := &todoServer{nextID: 1}
	for _, td := range seed {
		if td.ID >= s.nextID {
			s.nextID = td.ID + 1
		}
		s.todos = append(s.todos, td)
	}
	return s
}

func (s *todoServer) start(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return srv
}

func (s *todoServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-r.Context().Done():
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/todos")
	switch {
	case path == "" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, s.todos)
	case path == "" && r.Method == http.MethodPost:
		var td wireTodo
		if err := json.NewDecoder(r.Body).Decode(&td); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		td.ID = s.nextID
		s.nextID++
		s.todos = append(s.todos, td)
		writeJSON(w, http.StatusCreated, td)
	default:
		id, err := strconv.Atoi(strings.TrimPrefix(path, "/"))
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		pos := -1
		for i, td := range s.todos {
			if td.ID == id {
				pos = i
				break
			}
		}
		if pos < 0 {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, s.todos[pos])
		case http.MethodPatch:
			var patch map[string]any
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if title, ok := patch["title"].(string); ok {
				s.todos[pos].Title = title
			}
			if done, ok := patch["completed"].(bool); ok {
				s.todos[pos].Completed = done
			}
			writeJSON(w, http.StatusOK, s.todos[pos])
		case http.MethodDelete:
			removed := s.todos[pos]
			s.todos = append(s.todos[:pos], s.todos[pos+1:]...)
			writeJSON(w, http.StatusOK, removed)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var todoShape = shape.New("todo").
	Field("id", shape.Identifier()).
	Field("title").
	Field("done", shape.Alias("completed"), shape.Default(false)).
	MustBuild()

// newTodoStore wires a full store against the given server URL.
func newTodoStore(t *testing.T, baseURL string) *store.Store {
	t.Helper()
	s, err := store.New("todos").
		Transport(transport.New(baseURL)).
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
			Request: &action.RequestSpec{Method: "GET", URL: "/todos"},
			Commit:  &action.CommitSpec{Target: "list"},
			Shape:   todoShape,
		}).
		Action("fetchOne", action.Definition{
			Request: &action.RequestSpec{Method: "GET", URL: "/todos/:id"},
			Commit:  &action.CommitSpec{Target: "current"},
			Shape:   todoShape,
			Mode:    types.ConcurrencyCancel,
		}).
		Action("create", action.Definition{
			Request: &action.RequestSpec{Method: "POST", URL: "/todos"},
			Commit:  &action.CommitSpec{Target: "list"},
			Shape:   todoShape,
		}).
		Action("update", action.Definition{
			Request: &action.RequestSpec{Method: "PATCH", URL: "/todos/:id"},
			Commit:  &action.CommitSpec{Target: "list"},
			Shape:   todoShape,
		}).
		Action("delete", action.Definition{
			Request: &action.RequestSpec{Method: "DELETE", URL: "/todos/:id"},
			Commit:  &action.CommitSpec{Target: "list"},
			Shape:   todoShape,
		}).
		Build()
	if err != nil {
		t.Fatalf("build store: %v", err)
	}
	return s
}
