package board

import (
	"time"

	"github.com/jupyterhub/prboard/pkg/fields"
)

// Update is one field write to apply: set when Value is non-nil, clear
// when it is nil.
type Update struct {
	Field string
	Value *fields.Value
}

// ValuesEqual reports whether a stored value and a freshly computed value
// agree, meaning no write is needed. The rules:
//   - both absent: equal
//   - stored present, computed nil: not equal (the field must be cleared)
//   - dates: equal iff the same UTC calendar day, ignoring time of day
//   - otherwise: native equality under the field's declared type
func ValuesEqual(current, next *fields.Value) bool {
	if current == nil || next == nil {
		return current == nil && next == nil
	}
	if current.Type != next.Type {
		return false
	}
	switch current.Type {
	case fields.Date:
		return sameDay(current.Date, next.Date)
	case fields.Number:
		return current.Number == next.Number
	case fields.SingleSelect:
		return current.Option == next.Option
	default:
		return current.Text == next.Text
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// ComputeUpdates diffs computed classifier results against the stored
// values and returns the writes to apply, in field-declaration order.
func ComputeUpdates(specs []fields.Spec, stored, computed map[string]*fields.Value) []Update {
	var updates []Update
	for _, spec := range specs {
		next := computed[spec.Name]
		if ValuesEqual(stored[spec.Name], next) {
			continue
		}
		updates = append(updates, Update{Field: spec.Name, Value: next})
	}
	return updates
}
