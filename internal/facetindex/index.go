// Package facetindex maintains the handle -> display metadata lookup
// derived from the latest facet catalog. It is a display cache only and
// is never consulted for filtering decisions.
package facetindex

import (
	"strings"

	"github.com/shafiq-apps/afs-staging-sub001/internal/domain/models"
)

// Metadata is the display information kept per facet handle.
type Metadata struct {
	Label      string
	OptionType string
}

// Index is the handle-first metadata lookup. Rebuilt only when the
// catalog identity changes, not on every render.
type Index struct {
	byHandle map[string]Metadata
	byLabel  map[string]string // lowercased label -> handle, legacy only
}

// New returns an empty index.
func New() *Index {
	return &Index{
		byHandle: make(map[string]Metadata),
		byLabel:  make(map[string]string),
	}
}

// Build repopulates the index from a facet catalog in a single pass.
func (i *Index) Build(defs []models.FacetDefinition) {
	i.byHandle = make(map[string]Metadata, len(defs))
	i.byLabel = make(map[string]string, len(defs))

	for _, d := range defs {
		if d.Handle == "" {
			continue
		}
		i.byHandle[d.Handle] = Metadata{Label: d.Label, OptionType: d.OptionType}
		if d.Label != "" {
			lower := strings.ToLower(d.Label)
			if _, taken := i.byLabel[lower]; !taken {
				i.byLabel[lower] = d.Handle
			}
		}
	}
}

// Clear empties the index.
func (i *Index) Clear() {
	i.byHandle = make(map[string]Metadata)
	i.byLabel = make(map[string]string)
}

// Lookup resolves a handle to its display metadata.
func (i *Index) Lookup(handle string) (Metadata, bool) {
	m, ok := i.byHandle[handle]
	return m, ok
}

// Len returns the number of indexed handles.
func (i *Index) Len() int { return len(i.byHandle) }

// HandleForLabel is the legacy name-based fallback for API responses
// that carry no handles at all. It must never be the primary path:
// display names can collide across facets, and the first definition
// wins, so resolving by label risks misattribution.
func (i *Index) HandleForLabel(label string) (string, bool) {
	h, ok := i.byLabel[strings.ToLower(label)]
	return h, ok
}
