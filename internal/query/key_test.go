package query

import (
	"testing"

	"github.com/shafiq-apps/afs-staging-sub001/internal/domain/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestProductsKey_OrderIndependent(t *testing.T) {
	a := models.NewFilterState()
	a.Set(models.StandardKey(models.KindVendor), models.SetValue("Nike", "Adidas"))
	a.Set(models.DynamicKey("color"), models.SetValue("Red", "Blue"))
	a.Set(models.DynamicKey("size"), models.SetValue("M"))

	// Same filters inserted in the opposite order, values reversed.
	b := models.NewFilterState()
	b.Set(models.DynamicKey("size"), models.SetValue("M"))
	b.Set(models.DynamicKey("color"), models.SetValue("Blue", "Red"))
	b.Set(models.StandardKey(models.KindVendor), models.SetValue("Adidas", "Nike"))

	if ProductsKey(a) != ProductsKey(b) {
		t.Fatalf("keys differ:\n a = %q\n b = %q", ProductsKey(a), ProductsKey(b))
	}
}

func TestProductsKey_DistinguishesStates(t *testing.T) {
	base := models.NewFilterState()
	base.Set(models.StandardKey(models.KindVendor), models.SetValue("Nike"))

	tests := []struct {
		name   string
		mutate func(s *models.FilterState)
	}{
		{"different page", func(s *models.FilterState) { s.Pagination.Page = 2 }},
		{"different limit", func(s *models.FilterState) { s.Pagination.Limit = 48 }},
		{"different sort", func(s *models.FilterState) { s.Sort = models.NewSort("price", models.OrderAsc) }},
		{"different filter value", func(s *models.FilterState) {
			s.Set(models.StandardKey(models.KindVendor), models.SetValue("Puma"))
		}},
		{"extra filter", func(s *models.FilterState) {
			s.Set(models.DynamicKey("color"), models.SetValue("Red"))
		}},
		{"price range", func(s *models.FilterState) {
			s.Set(models.StandardKey(models.KindPrice), models.RangeValue(floatPtr(10), nil))
		}},
		{"collection scope", func(s *models.FilterState) { s.Collection.ID = "col-9" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base.Clone()
			tt.mutate(other)
			if ProductsKey(base) == ProductsKey(other) {
				t.Fatalf("key %q did not change", ProductsKey(base))
			}
		})
	}
}

func TestFacetsKey_IgnoresPagination(t *testing.T) {
	a := models.NewFilterState()
	a.Set(models.StandardKey(models.KindVendor), models.SetValue("Nike"))

	b := a.Clone()
	b.Pagination.Page = 5
	b.Pagination.Limit = 48

	if FacetsKey(a) != FacetsKey(b) {
		t.Fatalf("facet keys differ across pages:\n a = %q\n b = %q", FacetsKey(a), FacetsKey(b))
	}
	if ProductsKey(a) == ProductsKey(b) {
		t.Fatalf("product keys must still differ across pages")
	}
}

func TestFacetsKey_IgnoresSort(t *testing.T) {
	a := models.NewFilterState()
	a.Set(models.StandardKey(models.KindVendor), models.SetValue("Nike"))

	b := a.Clone()
	b.Sort = models.NewSort("price", models.OrderAsc)

	if FacetsKey(a) != FacetsKey(b) {
		t.Fatalf("facet keys differ across sorts:\n a = %q\n b = %q", FacetsKey(a), FacetsKey(b))
	}
	if ProductsKey(a) == ProductsKey(b) {
		t.Fatalf("product keys must still differ across sorts")
	}
}

func TestFacetsKey_IncludesCollectionScope(t *testing.T) {
	a := models.NewFilterState()
	b := a.Clone()
	b.Collection.ID = "col-1"

	if FacetsKey(a) == FacetsKey(b) {
		t.Fatalf("two collection scopes must not share a facet cache entry")
	}
}
