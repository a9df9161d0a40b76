package query

import (
	"encoding/json"
	"fmt"

	"github.com/shafiq-apps/afs-staging-sub001/internal/domain/models"
)

// ProductsKey returns the deterministic cache key of a products query.
// Equal states always map to equal keys regardless of map insertion
// order; the collection scope is part of the key even though it is not
// a user-visible filter, so two collection pages never share an entry.
func ProductsKey(s *models.FilterState) string {
	return fmt.Sprintf("products|%d|%d|%s|%s|%s|%s",
		s.Pagination.Page,
		s.Pagination.Limit,
		s.Sort.Field,
		s.Sort.Order,
		s.Collection.ID,
		canonicalFilters(s),
	)
}

// FacetsKey is the facet-query counterpart. Pagination and sort are
// excluded: facet aggregations depend on neither the visible page nor
// the product order.
func FacetsKey(s *models.FilterState) string {
	return fmt.Sprintf("facets|%s|%s",
		s.Collection.ID,
		canonicalFilters(s),
	)
}

// canonicalFilters renders the active filters as JSON with sorted
// object keys and sorted value sets. encoding/json already emits map
// keys in sorted order, which gives the order independence for free.
func canonicalFilters(s *models.FilterState) string {
	flat := make(map[string]interface{}, len(s.Filters))
	for handle, e := range s.Filters {
		switch {
		case e.Value.Range != nil:
			r := map[string]interface{}{}
			if e.Value.Range.Min != nil {
				r["min"] = *e.Value.Range.Min
			}
			if e.Value.Range.Max != nil {
				r["max"] = *e.Value.Range.Max
			}
			flat[handle] = r
		case e.Value.Text != "":
			flat[handle] = e.Value.Text
		default:
			flat[handle] = e.Value.SortedValues()
		}
	}

	b, err := json.Marshal(flat)
	if err != nil {
		// Only reachable with NaN/Inf bounds, which Set never stores.
		return ""
	}
	return string(b)
}
