package engine

import "sort"

// ============================================================================
// SORTING: Header-click state and stable record sorts
// ============================================================================

// Toggle applies a header click: the active field flips direction, any
// other field becomes active in ascending order.
func (s SortState) Toggle(field string) SortState {
	if field == s.Field {
		if s.Order == Descending {
			return SortState{Field: field, Order: Ascending}
		}
		return SortState{Field: field, Order: Descending}
	}
	return SortState{Field: field, Order: Ascending}
}

// SortController holds the sort state of one table. Each analyzer owns its
// own controller; controllers never share state.
type SortController struct {
	state SortState
}

// NewSortController starts from initial. An empty order means ascending.
func NewSortController(initial SortState) *SortController {
	if initial.Order == "" {
		initial.Order = Ascending
	}
	return &SortController{state: initial}
}

// OnHeaderClick toggles the sort for field and returns the new state.
func (c *SortController) OnHeaderClick(field string) SortState {
	c.state = c.state.Toggle(field)
	return c.state
}

// State returns the current sort state.
func (c *SortController) State() SortState { return c.state }

// SortRecords returns a sorted copy of records.
func SortRecords(records []Record, state SortState) []Record {
	return sortByField(records, state)
}

// SortRows returns a sorted copy of table rows.
func SortRows(rows []TableRow, state SortState) []TableRow {
	return sortByField(rows, state)
}

// sortByField copies items and stable-sorts the copy by state.Field.
func sortByField[T Getter](items []T, state SortState) []T {
	out := make([]T, len(items))
	copy(out, items)
	if len(out) < 2 || state.Field == "" {
		return out
	}

	order := state.Order
	if order == "" {
		order = Ascending
	}

	// Resolve once per item; comparisons run n·log(n) times.
	keys := make([]any, len(out))
	for i, item := range out {
		keys[i] = item.Get(state.Field)
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}

	cmp := NewComparator()
	sort.SliceStable(idx, func(i, j int) bool {
		return cmp.Compare(keys[idx[i]], keys[idx[j]], order) < 0
	})

	sorted := make([]T, len(out))
	for i, k := range idx {
		sorted[i] = out[k]
	}
	return sorted
}
