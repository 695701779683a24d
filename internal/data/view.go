package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/entitysync/internal/binding"
)

// SelectionEntry is one named selection of a view as written in YAML.
type SelectionEntry struct {
	Name       string   `yaml:"name"`
	Components []string `yaml:"components"` // component type names, e.g. Position
}

// ViewEntry describes a presenter: its selections and whether it re-renders
// on every tick (force_render) or only on its own triggers.
type ViewEntry struct {
	Name        string           `yaml:"name"`
	ForceRender bool             `yaml:"force_render"`
	Selections  []SelectionEntry `yaml:"selections"`
}

type viewListFile struct {
	Views []ViewEntry `yaml:"views"`
}

// View is a resolved ViewEntry.
type View struct {
	Name      string
	Query     *binding.Query
	Freshness binding.Freshness
}

// Resolver maps a component name from the view file to its type.
type Resolver func(name string) (binding.ComponentType, bool)

// ViewTable holds all views in file order.
type ViewTable struct {
	views  []*View
	byName map[string]*View
}

// LoadViewTable loads view_list.yaml.
func LoadViewTable(path string, resolve Resolver) (*ViewTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read view list: %w", err)
	}
	t, err := ParseViewTable(raw, resolve)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseViewTable builds a ViewTable from YAML, resolving every component name
// and validating each view's query.
func ParseViewTable(raw []byte, resolve Resolver) (*ViewTable, error) {
	var f viewListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse view list: %w", err)
	}
	t := &ViewTable{
		views:  make([]*View, 0, len(f.Views)),
		byName: make(map[string]*View, len(f.Views)),
	}
	for _, entry := range f.Views {
		if entry.Name == "" {
			return nil, fmt.Errorf("view %d: missing name", len(t.views))
		}
		if _, dup := t.byName[entry.Name]; dup {
			return nil, fmt.Errorf("view %s: duplicate name", entry.Name)
		}
		v, err := resolveView(entry, resolve)
		if err != nil {
			return nil, fmt.Errorf("view %s: %w", entry.Name, err)
		}
		t.views = append(t.views, v)
		t.byName[v.Name] = v
	}
	return t, nil
}

func resolveView(entry ViewEntry, resolve Resolver) (*View, error) {
	sels := make([]binding.Selection, 0, len(entry.Selections))
	for _, se := range entry.Selections {
		types := make([]binding.ComponentType, 0, len(se.Components))
		for _, name := range se.Components {
			ct, ok := resolve(name)
			if !ok {
				return nil, fmt.Errorf("selection %s: unknown component %q", se.Name, name)
			}
			types = append(types, ct)
		}
		sels = append(sels, binding.Select(se.Name, types...))
	}
	q, err := binding.NewQuery(sels...)
	if err != nil {
		return nil, err
	}
	freshness := binding.OnDemand
	if entry.ForceRender {
		freshness = binding.Always
	}
	return &View{Name: entry.Name, Query: q, Freshness: freshness}, nil
}

// Get returns the named view, or nil if none.
func (t *ViewTable) Get(name string) *View {
	return t.byName[name]
}

// All returns the views in file order.
func (t *ViewTable) All() []*View {
	return append([]*View(nil), t.views...)
}

// Count returns the total number of views loaded.
func (t *ViewTable) Count() int {
	return len(t.views)
}
