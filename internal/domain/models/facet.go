package models

// FacetRange is the server-aggregated bounds of a range facet.
type FacetRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FacetOption is one selectable value of a value facet, with its
// current product count.
type FacetOption struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
	Count int    `json:"count"`
}

// FacetDefinition is a server-supplied description of one filterable
// attribute. A definition is either a range facet (Range set) or a
// value facet (Values set).
type FacetDefinition struct {
	Handle     string        `json:"handle"`
	Label      string        `json:"label"`
	OptionType string        `json:"optionType,omitempty"`
	Range      *FacetRange   `json:"range,omitempty"`
	Values     []FacetOption `json:"values,omitempty"`
	Searchable bool          `json:"searchable,omitempty"`
	Collapsed  bool          `json:"collapsed,omitempty"`
	ShowCount  bool          `json:"showCount,omitempty"`
}

// IsRange reports whether the definition describes a range facet.
func (d *FacetDefinition) IsRange() bool { return d.Range != nil }

// Renderable reports whether the definition satisfies the catalog
// invariants: a range facet needs max > min, a value facet needs at
// least one value. Definitions failing this are excluded from display.
func (d *FacetDefinition) Renderable() bool {
	if d.Handle == "" {
		return false
	}
	if d.Range != nil {
		return d.Range.Max > d.Range.Min
	}
	return len(d.Values) > 0
}
