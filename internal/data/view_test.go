package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/entitysync/internal/binding"
)

type position struct{}
type velocity struct{}

func resolver(name string) (binding.ComponentType, bool) {
	switch name {
	case "Position":
		return binding.TypeOf[position](), true
	case "Velocity":
		return binding.TypeOf[velocity](), true
	}
	return binding.ComponentType{}, false
}

const viewsYAML = `
views:
  - name: hud
    force_render: true
    selections:
      - name: moving
        components: [Position, Velocity]
      - name: all
        components: [Position]
  - name: roster
    selections:
      - name: all
        components: [Position]
`

func TestParseViewTable(t *testing.T) {
	table, err := ParseViewTable([]byte(viewsYAML), resolver)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Count())

	hud := table.Get("hud")
	require.NotNil(t, hud)
	assert.Equal(t, binding.Always, hud.Freshness)
	assert.Equal(t, []string{"moving", "all"}, hud.Query.Names())
	moving, _ := hud.Query.Selection("moving")
	assert.Equal(t, []binding.ComponentType{binding.TypeOf[position](), binding.TypeOf[velocity]()}, moving.Types)

	assert.Equal(t, binding.OnDemand, table.Get("roster").Freshness)
	assert.Nil(t, table.Get("missing"))
	assert.Equal(t, "hud", table.All()[0].Name)
}

func TestParseViewTableErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown component", `
views:
  - name: v
    selections:
      - name: s
        components: [Health]
`, `unknown component "Health"`},
		{"empty selection", `
views:
  - name: v
    selections:
      - name: s
        components: []
`, "requests no component types"},
		{"no selections", `
views:
  - name: v
`, "no selections"},
		{"duplicate view", `
views:
  - name: v
    selections: [{name: s, components: [Position]}]
  - name: v
    selections: [{name: s, components: [Position]}]
`, "duplicate name"},
		{"missing name", `
views:
  - selections: [{name: s, components: [Position]}]
`, "missing name"},
		{"bad yaml", `views: [`, "parse view list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseViewTable([]byte(tt.yaml), resolver)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadViewTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view_list.yaml")
	require.NoError(t, os.WriteFile(path, []byte(viewsYAML), 0o644))

	table, err := LoadViewTable(path, resolver)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Count())

	_, err = LoadViewTable(filepath.Join(t.TempDir(), "missing.yaml"), resolver)
	assert.ErrorContains(t, err, "read view list")
}
