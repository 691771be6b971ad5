package schema

import "sort"

// SelectionSet is the set of variation ids currently visible.
type SelectionSet map[string]struct{}

// NewSelection builds a selection from ids.
func NewSelection(ids ...string) SelectionSet {
	s := make(SelectionSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is selected.
func (s SelectionSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the selected ids in variation order.
func (s SelectionSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return LessVariationID(ids[i], ids[j]) })
	return ids
}

// Clone returns an independent copy of the selection.
func (s SelectionSet) Clone() SelectionSet {
	out := make(SelectionSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// ToggleVariation adds id when absent and removes it when present.
// Removing the last selected id is refused and reported with false.
func ToggleVariation(s SelectionSet, id string) (SelectionSet, bool) {
	out := s.Clone()
	if out.Has(id) {
		if len(out) == 1 {
			return s, false
		}
		delete(out, id)
		return out, true
	}
	out[id] = struct{}{}
	return out, true
}

// ChartState is the caller-owned interaction state fed into the pipeline.
type ChartState struct {
	Granularity Granularity
	Selection   SelectionSet
	Zoom        *TimeExtent // nil means no zoom
}

// WithGranularity returns a copy with a new granularity and the zoom cleared.
func (c ChartState) WithGranularity(g Granularity) ChartState {
	c.Granularity = g
	c.Zoom = nil
	return c
}

// WithSelection returns a copy with a new selection and the zoom cleared.
func (c ChartState) WithSelection(s SelectionSet) ChartState {
	c.Selection = s.Clone()
	c.Zoom = nil
	return c
}

// WithZoom returns a copy with a new zoom window.
func (c ChartState) WithZoom(z *TimeExtent) ChartState {
	if z != nil {
		w := *z
		z = &w
	}
	c.Zoom = z
	return c
}
