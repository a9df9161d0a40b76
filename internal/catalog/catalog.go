// Package catalog is an in-memory product index with faceted search.
// It backs the devserver, which stands in for the production search
// API during local development.
package catalog

import (
	"sort"
	"strings"

	"github.com/shafiq-apps/afs-staging-sub001/internal/domain/models"
)

// Query is one faceted-search request against the catalog.
type Query struct {
	Search       string
	Vendors      []string
	ProductTypes []string
	Tags         []string
	Collections  []string
	PriceMin     *float64
	PriceMax     *float64
	Options      map[string][]string // dynamic handle -> selected values
	Sort         models.Sort
	Page         int
	Limit        int
	CollectionID string
}

// Catalog holds the product set. Read-only after construction.
type Catalog struct {
	products []models.Product
}

// New builds a catalog over the given products.
func New(products []models.Product) *Catalog {
	return &Catalog{products: products}
}

// Len returns the total product count.
func (c *Catalog) Len() int { return len(c.products) }

// Search returns the filtered, sorted, paginated product page.
func (c *Catalog) Search(q Query) models.ProductsPayload {
	matched := c.filter(q, "")
	sortProducts(matched, q.Sort)

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = models.DefaultLimit
	}

	p := models.NewPagination(page, limit)
	p.SetTotal(len(matched))

	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	return models.ProductsPayload{Products: matched[start:end], Pagination: p}
}

// Facets aggregates the facet catalog for the query. Each facet is
// counted against the products matching every OTHER filter, so that
// selecting a vendor does not collapse the vendor facet to one entry.
func (c *Catalog) Facets(q Query) []models.FacetDefinition {
	defs := []models.FacetDefinition{}

	if d := c.valueFacet(q, models.HandleVendor, "Vendor", func(p models.Product) []string {
		if p.Vendor == "" {
			return nil
		}
		return []string{p.Vendor}
	}); d != nil {
		defs = append(defs, *d)
	}

	if d := c.valueFacet(q, models.HandleProductType, "Product type", func(p models.Product) []string {
		if p.ProductType == "" {
			return nil
		}
		return []string{p.ProductType}
	}); d != nil {
		defs = append(defs, *d)
	}

	if d := c.valueFacet(q, models.HandleTags, "Tags", func(p models.Product) []string {
		return p.Tags
	}); d != nil {
		defs = append(defs, *d)
	}

	if d := c.priceFacet(q); d != nil {
		defs = append(defs, *d)
	}

	for _, handle := range c.optionHandles() {
		h := handle
		if d := c.valueFacet(q, h, titleCase(h), func(p models.Product) []string {
			return p.Options[h]
		}); d != nil {
			defs = append(defs, *d)
		}
	}

	return defs
}

// optionHandles collects every dynamic option key present in the set.
func (c *Catalog) optionHandles() []string {
	seen := map[string]struct{}{}
	for _, p := range c.products {
		for h := range p.Options {
			seen[h] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for h := range seen {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) valueFacet(q Query, handle, label string, extract func(models.Product) []string) *models.FacetDefinition {
	counts := map[string]int{}
	for _, p := range c.filterProducts(q, handle) {
		for _, v := range extract(p) {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	values := make([]models.FacetOption, 0, len(counts))
	for v, n := range counts {
		values = append(values, models.FacetOption{Value: v, Count: n})
	}
	sort.Slice(values, func(i, j int) bool { return values[i].Value < values[j].Value })

	return &models.FacetDefinition{
		Handle:    handle,
		Label:     label,
		Values:    values,
		ShowCount: true,
	}
}

func (c *Catalog) priceFacet(q Query) *models.FacetDefinition {
	matched := c.filterProducts(q, models.HandlePrice)
	if len(matched) == 0 {
		return nil
	}

	min, max := matched[0].Price, matched[0].Price
	for _, p := range matched[1:] {
		if p.Price < min {
			min = p.Price
		}
		if p.Price > max {
			max = p.Price
		}
	}
	if max <= min {
		return nil
	}

	return &models.FacetDefinition{
		Handle: models.HandlePrice,
		Label:  "Price",
		Range:  &models.FacetRange{Min: min, Max: max},
	}
}

// filter applies every criterion; excludeHandle skips one facet's own
// criterion for aggregation.
func (c *Catalog) filter(q Query, excludeHandle string) []models.Product {
	return c.filterProducts(q, excludeHandle)
}

func (c *Catalog) filterProducts(q Query, excludeHandle string) []models.Product {
	var out []models.Product
	for _, p := range c.products {
		if matches(p, q, excludeHandle) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p models.Product, q Query, excludeHandle string) bool {
	if q.CollectionID != "" && !containsString(p.Collections, q.CollectionID) {
		return false
	}
	if q.Search != "" && !matchesSearch(p, q.Search) {
		return false
	}
	if excludeHandle != models.HandleVendor && len(q.Vendors) > 0 && !containsString(q.Vendors, p.Vendor) {
		return false
	}
	if excludeHandle != models.HandleProductType && len(q.ProductTypes) > 0 && !containsString(q.ProductTypes, p.ProductType) {
		return false
	}
	if excludeHandle != models.HandleTags && len(q.Tags) > 0 && !intersects(p.Tags, q.Tags) {
		return false
	}
	if len(q.Collections) > 0 && !intersects(p.Collections, q.Collections) {
		return false
	}
	if excludeHandle != models.HandlePrice {
		if q.PriceMin != nil && p.Price < *q.PriceMin {
			return false
		}
		if q.PriceMax != nil && p.Price > *q.PriceMax {
			return false
		}
	}
	for handle, wanted := range q.Options {
		if handle == excludeHandle || len(wanted) == 0 {
			continue
		}
		if !intersects(p.Options[handle], wanted) {
			return false
		}
	}
	return true
}

func matchesSearch(p models.Product, needle string) bool {
	needle = strings.ToLower(needle)
	if strings.Contains(strings.ToLower(p.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Vendor), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(p.ProductType), needle) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

func sortProducts(products []models.Product, s models.Sort) {
	asc := s.Order == models.OrderAsc
	switch s.Field {
	case "price":
		sort.SliceStable(products, func(i, j int) bool {
			if asc {
				return products[i].Price < products[j].Price
			}
			return products[i].Price > products[j].Price
		})
	case "title":
		sort.SliceStable(products, func(i, j int) bool {
			if asc {
				return products[i].Title < products[j].Title
			}
			return products[i].Title > products[j].Title
		})
	case "created":
		sort.SliceStable(products, func(i, j int) bool {
			if asc {
				return products[i].CreatedAt < products[j].CreatedAt
			}
			return products[i].CreatedAt > products[j].CreatedAt
		})
	case models.SortBestSelling:
		// Seed order is the curated best-selling order.
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func containsString(haystack []string, needle string) bool {
	for _, v := range haystack {
		if strings.EqualFold(v, needle) {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if strings.EqualFold(x, y) {
				return true
			}
		}
	}
	return false
}
