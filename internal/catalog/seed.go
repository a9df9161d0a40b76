package catalog

import (
	"fmt"
	"strings"

	"github.com/shafiq-apps/afs-staging-sub001/internal/domain/models"
)

// Seed returns a small demo catalog for the devserver: enough variety
// across vendors, types, tags, options and prices to exercise every
// facet kind.
func Seed() []models.Product {
	vendors := []string{"Nike", "Adidas", "Puma", "Asics"}
	types := []string{"Shoes", "Apparel", "Accessories"}
	colors := []string{"Black", "White", "Red", "Blue"}
	sizes := []string{"S", "M", "L", "XL"}

	var products []models.Product
	id := 0
	for vi, vendor := range vendors {
		for ti, ptype := range types {
			for ci, color := range colors {
				id++
				price := 20.0 + float64(id%9)*15.0
				tags := []string{"new"}
				if id%3 == 0 {
					tags = append(tags, "sale")
				}
				if id%4 == 0 {
					tags = append(tags, "featured")
				}

				products = append(products, models.Product{
					ID:          fmt.Sprintf("prod-%03d", id),
					Handle:      fmt.Sprintf("%s-%s-%s-%d", strings.ToLower(vendor), strings.ToLower(ptype), strings.ToLower(color), id),
					Title:       fmt.Sprintf("%s %s %s", vendor, color, ptype),
					Vendor:      vendor,
					ProductType: ptype,
					Tags:        tags,
					Collections: []string{"all", strings.ToLower(ptype)},
					Options: map[string][]string{
						"color": {color},
						"size":  {sizes[(vi+ti+ci)%len(sizes)]},
					},
					Price:     price,
					Image:     fmt.Sprintf("https://cdn.example.com/p/%03d.jpg", id),
					URL:       fmt.Sprintf("/products/prod-%03d", id),
					Available: id%7 != 0,
					CreatedAt: int64(1700000000 + id*86400),
				})
			}
		}
	}
	return products
}
