package facetindex

import (
	"testing"

	"github.com/shafiq-apps/afs-staging-sub001/internal/domain/models"
)

func TestBuild_HandleLookup(t *testing.T) {
	idx := New()
	idx.Build([]models.FacetDefinition{
		{Handle: "vendor", Label: "Brand", OptionType: "list"},
		{Handle: "color", Label: "Color", OptionType: "swatch"},
		{Handle: "", Label: "ghost"},
	})

	if idx.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (handleless facets are skipped)", idx.Len())
	}

	m, ok := idx.Lookup("vendor")
	if !ok || m.Label != "Brand" || m.OptionType != "list" {
		t.Fatalf("Lookup(vendor) = %v, %v", m, ok)
	}
	if _, ok := idx.Lookup("missing"); ok {
		t.Fatalf("Lookup(missing) resolved")
	}
}

func TestBuild_ReplacesPreviousCatalog(t *testing.T) {
	idx := New()
	idx.Build([]models.FacetDefinition{{Handle: "vendor", Label: "Brand"}})
	idx.Build([]models.FacetDefinition{{Handle: "color", Label: "Color"}})

	if _, ok := idx.Lookup("vendor"); ok {
		t.Fatalf("stale handle survived a rebuild")
	}
	if _, ok := idx.Lookup("color"); !ok {
		t.Fatalf("new handle missing after rebuild")
	}
}

func TestHandleForLabel_CaseInsensitiveFirstWins(t *testing.T) {
	idx := New()
	idx.Build([]models.FacetDefinition{
		{Handle: "vendor", Label: "Brand"},
		{Handle: "maker", Label: "brand"},
	})

	h, ok := idx.HandleForLabel("BRAND")
	if !ok || h != "vendor" {
		t.Fatalf("HandleForLabel(BRAND) = %q, %v; want vendor (first definition wins)", h, ok)
	}
}

func TestClear(t *testing.T) {
	idx := New()
	idx.Build([]models.FacetDefinition{{Handle: "vendor", Label: "Brand"}})
	idx.Clear()

	if idx.Len() != 0 {
		t.Fatalf("Len = %d after Clear, want 0", idx.Len())
	}
	if _, ok := idx.HandleForLabel("Brand"); ok {
		t.Fatalf("label lookup survived Clear")
	}
}
