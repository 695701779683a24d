package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryKeepsDeclarationOrder(t *testing.T) {
	q, err := NewQuery(
		Select("moving", positionType, velocityType),
		Select("all", positionType),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, []string{"moving", "all"}, q.Names())

	sel, ok := q.Selection("moving")
	require.True(t, ok)
	assert.Equal(t, []ComponentType{positionType, velocityType}, sel.Types)

	_, ok = q.Selection("missing")
	assert.False(t, ok)
}

func TestNewQueryValidation(t *testing.T) {
	tests := []struct {
		name string
		sels []Selection
		want error
	}{
		{"no selections", nil, ErrEmptyQuery},
		{"empty name", []Selection{Select("", positionType)}, ErrEmptyName},
		{"duplicate", []Selection{Select("a", positionType), Select("a", velocityType)}, ErrDuplicateSelection},
		{"no types", []Selection{Select("a")}, ErrEmptySelection},
		{"zero type", []Selection{Select("a", positionType, ComponentType{})}, ErrInvalidComponentType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuery(tt.sels...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewQueryCopiesTypes(t *testing.T) {
	types := []ComponentType{positionType}
	q := MustQuery(Selection{Name: "a", Types: types})
	types[0] = velocityType

	sel, _ := q.Selection("a")
	assert.Equal(t, positionType, sel.Types[0])
}

func TestMustQueryPanics(t *testing.T) {
	assert.Panics(t, func() { MustQuery() })
}

func TestTypeOfNormalisesPointers(t *testing.T) {
	assert.Equal(t, TypeOf[position](), TypeOf[*position]())
	assert.Equal(t, "position", positionType.Name())
	assert.False(t, ComponentType{}.Valid())
	assert.Equal(t, "<invalid>", ComponentType{}.String())
}
