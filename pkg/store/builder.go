// Package store composes one shape-derived model, its views, and its
// actions into a single addressable unit. Definition is two-pass: the
// builder records named definitions, then Build allocates model slots first
// and resolves view and action cross-references by key lookup, so
// definitions may reference each other free of construction-order cycles.
package store

import (
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/pantry/pkg/action"
	"github.com/mesh-intelligence/pantry/pkg/model"
	"github.com/mesh-intelligence/pantry/pkg/types"
	"github.com/mesh-intelligence/pantry/pkg/view"
)

// ViewDef declares a projection over model slots or earlier views, resolved
// by key at build time.
type ViewDef struct {
	// Sources are the keys of the slots (or previously declared views)
	// the projection reads.
	Sources []string

	// Resolver computes the projection; nil is the identity for a single
	// source.
	Resolver view.Resolver

	// Clone is the projection's mutation-safety tier.
	Clone types.ClonePolicy
}

// Builder accumulates named definitions for one store.
type Builder struct {
	name      string
	transport types.Transport
	logger    *slog.Logger

	slots   []slotDef
	views   []namedViewDef
	actions []namedActionDef
}

type slotDef struct {
	key  string
	kind types.Kind
	def  model.Definition
}

type namedViewDef struct {
	key string
	def ViewDef
}

type namedActionDef struct {
	key string
	def action.Definition
}

// New starts a store definition.
func New(name string) *Builder {
	return &Builder{name: name}
}

// Unit declares a single-entity model slot.
func (b *Builder) Unit(key string, def model.Definition) *Builder {
	b.slots = append(b.slots, slotDef{key: key, kind: types.KindUnit, def: def})
	return b
}

// Collection declares an ordered-list model slot.
func (b *Builder) Collection(key string, def model.Definition) *Builder {
	b.slots = append(b.slots, slotDef{key: key, kind: types.KindCollection, def: def})
	return b
}

// View declares a projection.
func (b *Builder) View(key string, def ViewDef) *Builder {
	b.views = append(b.views, namedViewDef{key: key, def: def})
	return b
}

// Action declares an action. An action without its own transport or logger
// inherits the builder's.
func (b *Builder) Action(key string, def action.Definition) *Builder {
	b.actions = append(b.actions, namedActionDef{key: key, def: def})
	return b
}

// Transport sets the default transport for the store's actions.
func (b *Builder) Transport(t types.Transport) *Builder {
	b.transport = t
	return b
}

// Logger sets the default logger for the store's actions.
func (b *Builder) Logger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// Build wires the store: model slots first, then views by source-key lookup,
// then actions by commit-target and snapshot lookup. Duplicate or dangling
// keys fail the build.
func (b *Builder) Build() (*Store, error) {
	s := &Store{
		name:        b.name,
		units:       map[string]*model.Unit{},
		collections: map[string]*model.Collection{},
		views:       map[string]*view.View{},
		actions:     map[string]*action.Action{},
	}

	// Pass 1: allocate model slots.
	for _, sd := range b.slots {
		if s.hasSlot(sd.key) {
			return nil, fmt.Errorf("slot %q: %w", sd.key, types.ErrDuplicateSlot)
		}
		switch sd.kind {
		case types.KindUnit:
			s.units[sd.key] = model.NewUnit(sd.def)
		case types.KindCollection:
			s.collections[sd.key] = model.NewCollection(sd.def)
		}
	}

	// Pass 2: resolve views. Declaration order, so a view may read views
	// declared before it.
	for _, vd := range b.views {
		if _, ok := s.views[vd.key]; ok || s.hasSlot(vd.key) {
			return nil, fmt.Errorf("view %q: %w", vd.key, types.ErrDuplicateView)
		}
		if len(vd.def.Sources) == 0 {
			return nil, fmt.Errorf("view %q: %w: no sources", vd.key, types.ErrSlotNotFound)
		}
		srcs := make([]view.Source, 0, len(vd.def.Sources))
		for _, key := range vd.def.Sources {
			src, ok := s.source(key)
			if !ok {
				return nil, fmt.Errorf("view %q source %q: %w", vd.key, key, types.ErrSlotNotFound)
			}
			srcs = append(srcs, src)
		}
		if len(srcs) == 1 {
			s.views[vd.key] = view.From(srcs[0], vd.def.Resolver, vd.def.Clone)
		} else {
			s.views[vd.key] = view.Merge(srcs, vd.def.Resolver, vd.def.Clone)
		}
	}

	// Pass 3: resolve actions against the finished model and views.
	lookup := func(target string) (model.Committer, bool) {
		if u, ok := s.units[target]; ok {
			return u, true
		}
		if c, ok := s.collections[target]; ok {
			return c, true
		}
		return nil, false
	}
	for _, ad := range b.actions {
		if _, ok := s.actions[ad.key]; ok {
			return nil, fmt.Errorf("action %q: %w", ad.key, types.ErrDuplicateAction)
		}
		def := ad.def
		if def.Name == "" {
			def.Name = ad.key
		}
		if def.Transport == nil {
			def.Transport = b.transport
		}
		if def.Logger == nil {
			def.Logger = b.logger
		}
		if def.Commit != nil {
			if _, ok := lookup(def.Commit.Target); !ok {
				return nil, fmt.Errorf("action %q commit target %q: %w", ad.key, def.Commit.Target, types.ErrSlotNotFound)
			}
		}
		s.actions[ad.key] = action.New(def, s, lookup)
	}
	return s, nil
}
