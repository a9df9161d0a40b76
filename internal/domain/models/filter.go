package models

import (
	"sort"
	"strings"
)

// StandardKind enumerates the well-known filters that get dedicated
// wire-format handling. Everything else is a dynamic server handle.
type StandardKind int

const (
	KindDynamic StandardKind = iota
	KindVendor
	KindProductType
	KindTags
	KindCollections
	KindSearch
	KindPrice
)

// Canonical handles for the standard filters. Dynamic filters use the
// server-assigned handle verbatim.
const (
	HandleVendor      = "vendor"
	HandleProductType = "productType"
	HandleTags        = "tags"
	HandleCollections = "collections"
	HandleSearch      = "search"
	HandlePrice       = "price"
)

// FilterKey classifies a filter handle exactly once, at parse time.
// Kind is KindDynamic for opaque server handles; Handle is always the
// wire key the entry is written under.
type FilterKey struct {
	Kind   StandardKind
	Handle string
}

// StandardKey returns the FilterKey for a well-known filter kind.
func StandardKey(kind StandardKind) FilterKey {
	switch kind {
	case KindVendor:
		return FilterKey{Kind: kind, Handle: HandleVendor}
	case KindProductType:
		return FilterKey{Kind: kind, Handle: HandleProductType}
	case KindTags:
		return FilterKey{Kind: kind, Handle: HandleTags}
	case KindCollections:
		return FilterKey{Kind: kind, Handle: HandleCollections}
	case KindSearch:
		return FilterKey{Kind: kind, Handle: HandleSearch}
	case KindPrice:
		return FilterKey{Kind: kind, Handle: HandlePrice}
	default:
		return FilterKey{}
	}
}

// DynamicKey returns the FilterKey for an opaque server handle.
func DynamicKey(handle string) FilterKey {
	return FilterKey{Kind: KindDynamic, Handle: handle}
}

// PriceRange is a numeric filter range. Either bound may be absent.
type PriceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// IsEmpty reports whether neither bound is set.
func (r PriceRange) IsEmpty() bool {
	return r.Min == nil && r.Max == nil
}

// FilterValue is the value side of one active filter: free text for the
// search filter, a value set for multi-select facets, or a numeric range
// for the price facet. Exactly one of the three is populated.
type FilterValue struct {
	Text   string      `json:"text,omitempty"`
	Values []string    `json:"values,omitempty"`
	Range  *PriceRange `json:"range,omitempty"`
}

// TextValue builds a text FilterValue.
func TextValue(s string) FilterValue { return FilterValue{Text: s} }

// SetValue builds a value-set FilterValue, dropping duplicates.
func SetValue(values ...string) FilterValue {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return FilterValue{Values: out}
}

// RangeValue builds a range FilterValue. Nil pointers mean open bounds.
func RangeValue(min, max *float64) FilterValue {
	return FilterValue{Range: &PriceRange{Min: min, Max: max}}
}

// IsEmpty reports whether the value carries nothing. Empty values must
// never be stored in a filter state: absent key means inactive filter.
func (v FilterValue) IsEmpty() bool {
	if v.Text != "" {
		return false
	}
	if len(v.Values) > 0 {
		return false
	}
	if v.Range != nil && !v.Range.IsEmpty() {
		return false
	}
	return true
}

// SortedValues returns the value set in a stable order. The set itself
// is unordered; the sorted copy backs deterministic serialization.
func (v FilterValue) SortedValues() []string {
	out := make([]string, len(v.Values))
	copy(out, v.Values)
	sort.Strings(out)
	return out
}

// Has reports whether value is a member of the value set.
func (v FilterValue) Has(value string) bool {
	for _, m := range v.Values {
		if m == value {
			return true
		}
	}
	return false
}

// Entry pairs a classified key with its active value.
type Entry struct {
	Key   FilterKey
	Value FilterValue
}

// SelectedCollection is the server-managed scoping context. It is sent
// on every API call but never surfaces as a removable filter chip.
type SelectedCollection struct {
	ID     string `json:"id,omitempty"`
	SortBy string `json:"sortBy,omitempty"`
}

// FilterState is the canonical in-memory representation of the active
// filters plus pagination, sort and collection scope. It is created once
// at engine init and mutated only by the engine.
type FilterState struct {
	Filters    map[string]Entry
	Pagination Pagination
	Sort       Sort
	Collection SelectedCollection
}

// NewFilterState returns an empty state with default pagination and sort.
func NewFilterState() *FilterState {
	return &FilterState{
		Filters:    make(map[string]Entry),
		Pagination: NewPagination(1, DefaultLimit),
		Sort:       DefaultSort(),
	}
}

// Get returns the active value for handle, if any.
func (s *FilterState) Get(handle string) (FilterValue, bool) {
	e, ok := s.Filters[handle]
	return e.Value, ok
}

// Set stores value under key, or removes the entry when value is empty.
// Going through Set is what keeps the "active filter == present key"
// invariant: empty sets or open ranges are never stored.
func (s *FilterState) Set(key FilterKey, value FilterValue) {
	if key.Handle == "" {
		return
	}
	if value.IsEmpty() {
		delete(s.Filters, key.Handle)
		return
	}
	s.Filters[key.Handle] = Entry{Key: key, Value: value}
}

// Toggle flips membership of value in the set under key.
func (s *FilterState) Toggle(key FilterKey, value string) {
	cur, ok := s.Filters[key.Handle]
	if !ok {
		s.Set(key, SetValue(value))
		return
	}

	if cur.Value.Has(value) {
		kept := make([]string, 0, len(cur.Value.Values))
		for _, v := range cur.Value.Values {
			if v != value {
				kept = append(kept, v)
			}
		}
		s.Set(key, FilterValue{Values: kept})
		return
	}
	s.Set(key, FilterValue{Values: append(append([]string(nil), cur.Value.Values...), value)})
}

// Remove deletes the filter under handle.
func (s *FilterState) Remove(handle string) {
	delete(s.Filters, handle)
}

// Clear removes every filter, leaving pagination/sort/scope untouched.
func (s *FilterState) Clear() {
	s.Filters = make(map[string]Entry)
}

// ActiveCount returns the number of active filters.
func (s *FilterState) ActiveCount() int {
	return len(s.Filters)
}

// Clone returns a deep copy. The engine hands clones to subscribers so
// external renderers can never mutate the canonical state.
func (s *FilterState) Clone() *FilterState {
	out := &FilterState{
		Filters:    make(map[string]Entry, len(s.Filters)),
		Pagination: s.Pagination,
		Sort:       s.Sort,
		Collection: s.Collection,
	}
	for h, e := range s.Filters {
		ce := Entry{Key: e.Key}
		ce.Value.Text = e.Value.Text
		if len(e.Value.Values) > 0 {
			ce.Value.Values = append([]string(nil), e.Value.Values...)
		}
		if e.Value.Range != nil {
			r := &PriceRange{}
			if e.Value.Range.Min != nil {
				min := *e.Value.Range.Min
				r.Min = &min
			}
			if e.Value.Range.Max != nil {
				max := *e.Value.Range.Max
				r.Max = &max
			}
			ce.Value.Range = r
		}
		out.Filters[h] = ce
	}
	return out
}

// FilterSignature returns a deterministic textual form of the active
// filters, independent of map iteration and value insertion order. The
// engine diffs signatures on popstate; the query client builds its cache
// key on top of the same canonical form.
func (s *FilterState) FilterSignature() string {
	handles := make([]string, 0, len(s.Filters))
	for h := range s.Filters {
		handles = append(handles, h)
	}
	sort.Strings(handles)

	var b strings.Builder
	for i, h := range handles {
		if i > 0 {
			b.WriteByte('&')
		}
		e := s.Filters[h]
		b.WriteString(h)
		b.WriteByte('=')
		switch {
		case e.Value.Range != nil:
			b.WriteString(formatRange(e.Value.Range))
		case e.Value.Text != "":
			b.WriteString(e.Value.Text)
		default:
			b.WriteString(strings.Join(e.Value.SortedValues(), ","))
		}
	}
	return b.String()
}

func formatRange(r *PriceRange) string {
	var b strings.Builder
	if r.Min != nil {
		b.WriteString(FormatAmount(*r.Min))
	}
	b.WriteByte('-')
	if r.Max != nil {
		b.WriteString(FormatAmount(*r.Max))
	}
	return b.String()
}
