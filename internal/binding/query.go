package binding

import "fmt"

// Selection is a named, conjunctive request for entities carrying every one
// of Types. Bundles hold components in the order of Types.
type Selection struct {
	Name  string
	Types []ComponentType
}

// Select builds a Selection.
func Select(name string, types ...ComponentType) Selection {
	return Selection{Name: name, Types: types}
}

// Query is a validated, immutable set of selections.
type Query struct {
	selections []Selection
	index      map[string]int
}

// NewQuery validates the selections and copies them. Selection order is kept
// for Names and for Result.Names.
func NewQuery(selections ...Selection) (*Query, error) {
	if len(selections) == 0 {
		return nil, ErrEmptyQuery
	}
	q := &Query{
		selections: make([]Selection, 0, len(selections)),
		index:      make(map[string]int, len(selections)),
	}
	for i, sel := range selections {
		if sel.Name == "" {
			return nil, fmt.Errorf("selection %d: %w", i, ErrEmptyName)
		}
		if _, dup := q.index[sel.Name]; dup {
			return nil, fmt.Errorf("selection %q: %w", sel.Name, ErrDuplicateSelection)
		}
		if len(sel.Types) == 0 {
			return nil, fmt.Errorf("selection %q: %w", sel.Name, ErrEmptySelection)
		}
		types := make([]ComponentType, len(sel.Types))
		for j, t := range sel.Types {
			if !t.Valid() {
				return nil, fmt.Errorf("selection %q type %d: %w", sel.Name, j, ErrInvalidComponentType)
			}
			types[j] = t
		}
		q.index[sel.Name] = len(q.selections)
		q.selections = append(q.selections, Selection{Name: sel.Name, Types: types})
	}
	return q, nil
}

// MustQuery is like NewQuery but panics on an invalid query.
func MustQuery(selections ...Selection) *Query {
	q, err := NewQuery(selections...)
	if err != nil {
		panic(err)
	}
	return q
}

func (q *Query) Len() int { return len(q.selections) }

// Names returns the selection names in declaration order.
func (q *Query) Names() []string {
	names := make([]string, len(q.selections))
	for i, sel := range q.selections {
		names[i] = sel.Name
	}
	return names
}

// Selection returns the named selection.
func (q *Query) Selection(name string) (Selection, bool) {
	i, ok := q.index[name]
	if !ok {
		return Selection{}, false
	}
	sel := q.selections[i]
	return Selection{Name: sel.Name, Types: append([]ComponentType(nil), sel.Types...)}, true
}
