package schema

import (
	"fmt"
	"sort"
	"strconv"
)

// Palette holds the display colors assigned to variations in catalog order.
var Palette = []string{"#46464f", "#4142ef", "#ff8346", "#35bdad"}

// Catalog is the immutable lookup of variation metadata by id.
type Catalog struct {
	specs []VariationSpec
	byID  map[string]VariationSpec
}

// NewCatalog builds a catalog from specs, keeping their order.
// Duplicate ids keep the first entry.
func NewCatalog(specs []VariationSpec) Catalog {
	c := Catalog{byID: make(map[string]VariationSpec, len(specs))}
	for _, s := range specs {
		if _, ok := c.byID[s.ID]; ok {
			continue
		}
		c.specs = append(c.specs, s)
		c.byID[s.ID] = s
	}
	return c
}

// CatalogFromRaw converts the dataset's variation list into a catalog.
// Entries without an id are the control arm.
func CatalogFromRaw(raw []RawVariation) Catalog {
	specs := make([]VariationSpec, 0, len(raw))
	for i, v := range raw {
		id := ControlVariationID
		if v.ID != nil {
			id = strconv.FormatInt(*v.ID, 10)
		}
		specs = append(specs, VariationSpec{ID: id, Name: v.Name, Color: Palette[i%len(Palette)]})
	}
	return NewCatalog(specs)
}

// DefaultCatalog returns the four arms used when a dataset carries no variation list.
func DefaultCatalog() Catalog {
	return NewCatalog([]VariationSpec{
		{ID: "0", Name: "Original", Color: Palette[0]},
		{ID: "10001", Name: "Variation A", Color: Palette[1]},
		{ID: "10002", Name: "Variation B", Color: Palette[2]},
		{ID: "10003", Name: "Variation C", Color: Palette[3]},
	})
}

// Lookup returns the variation for id and whether it is known.
func (c Catalog) Lookup(id string) (VariationSpec, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Name returns the display name for id, falling back to "Variation <id>".
func (c Catalog) Name(id string) string {
	if s, ok := c.Lookup(id); ok && s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf(UnknownVariationFmt, id)
}

// Color returns the display color for id, or an empty string when unknown.
func (c Catalog) Color(id string) string {
	s, _ := c.Lookup(id)
	return s.Color
}

// Specs returns a copy of the catalog entries in order.
func (c Catalog) Specs() []VariationSpec {
	out := make([]VariationSpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// IDs returns all ids in catalog order.
func (c Catalog) IDs() []string {
	ids := make([]string, len(c.specs))
	for i, s := range c.specs {
		ids[i] = s.ID
	}
	return ids
}

// Len returns the number of variations.
func (c Catalog) Len() int {
	return len(c.specs)
}

// SortVariationIDs orders ids numerically when both parse as integers, lexically otherwise.
// Numeric ids sort before non-numeric ones.
func SortVariationIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return LessVariationID(ids[i], ids[j])
	})
}

// LessVariationID is the ordering used by SortVariationIDs.
func LessVariationID(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
