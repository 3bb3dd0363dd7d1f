package store

import (
	"fmt"

	"github.com/mesh-intelligence/pantry/pkg/action"
	"github.com/mesh-intelligence/pantry/pkg/model"
	"github.com/mesh-intelligence/pantry/pkg/types"
	"github.com/mesh-intelligence/pantry/pkg/view"
)

// Store is one wired model-views-actions unit. It exclusively owns its model
// state; views hold read access and actions hold read access plus the narrow
// commit capability, never direct writes.
type Store struct {
	name        string
	units       map[string]*model.Unit
	collections map[string]*model.Collection
	views       map[string]*view.View
	actions     map[string]*action.Action
}

// Name returns the store's name.
func (s *Store) Name() string { return s.name }

// Unit returns the unit slot under key.
func (s *Store) Unit(key string) (*model.Unit, error) {
	u, ok := s.units[key]
	if !ok {
		return nil, fmt.Errorf("unit %q: %w", key, types.ErrSlotNotFound)
	}
	return u, nil
}

// Collection returns the collection slot under key.
func (s *Store) Collection(key string) (*model.Collection, error) {
	c, ok := s.collections[key]
	if !ok {
		return nil, fmt.Errorf("collection %q: %w", key, types.ErrSlotNotFound)
	}
	return c, nil
}

// View returns the projection under key.
func (s *Store) View(key string) (*view.View, error) {
	v, ok := s.views[key]
	if !ok {
		return nil, fmt.Errorf("view %q: %w", key, types.ErrViewNotFound)
	}
	return v, nil
}

// Action returns the action under key.
func (s *Store) Action(key string) (*action.Action, error) {
	a, ok := s.actions[key]
	if !ok {
		return nil, fmt.Errorf("action %q: %w", key, types.ErrActionNotFound)
	}
	return a, nil
}

// Read implements the read-only snapshot handed to request resolvers: it
// returns the current value of the view under key, falling back to the raw
// model slot when no view has that key, and nil for unknown keys.
func (s *Store) Read(key string) any {
	if v, ok := s.views[key]; ok {
		return v.Get()
	}
	if src, ok := s.source(key); ok {
		return src.Value()
	}
	return nil
}

// source resolves a key to a readable versioned value: a view first, then a
// model slot.
func (s *Store) source(key string) (view.Source, bool) {
	if v, ok := s.views[key]; ok {
		return v, true
	}
	if u, ok := s.units[key]; ok {
		return u, true
	}
	if c, ok := s.collections[key]; ok {
		return c, true
	}
	return nil, false
}

// hasSlot reports whether key names a model slot.
func (s *Store) hasSlot(key string) bool {
	_, u := s.units[key]
	_, c := s.collections[key]
	return u || c
}
