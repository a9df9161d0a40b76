package models

// Product is one grid item as returned by the search API or embedded in
// the server-rendered fallback snapshot.
type Product struct {
	ID             string              `json:"id"`
	Handle         string              `json:"handle"`
	Title          string              `json:"title"`
	Vendor         string              `json:"vendor,omitempty"`
	ProductType    string              `json:"productType,omitempty"`
	Tags           []string            `json:"tags,omitempty"`
	Collections    []string            `json:"collections,omitempty"`
	Options        map[string][]string `json:"options,omitempty"`
	Price          float64             `json:"price"`
	CompareAtPrice float64             `json:"compareAtPrice,omitempty"`
	Image          string              `json:"image,omitempty"`
	URL            string              `json:"url,omitempty"`
	Available      bool                `json:"available"`
	CreatedAt      int64               `json:"createdAt,omitempty"`
}

// ProductsPayload is the data portion of a products response.
type ProductsPayload struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// FacetsPayload is the data portion of a filters response.
type FacetsPayload struct {
	Filters []FacetDefinition `json:"filters"`
}

// ProductsEnvelope is the wire envelope of GET /products. Success and
// Data must both be checked even on HTTP 200.
type ProductsEnvelope struct {
	Success bool             `json:"success"`
	Data    *ProductsPayload `json:"data"`
	Message string           `json:"message,omitempty"`
}

// FacetsEnvelope is the wire envelope of GET /filters.
type FacetsEnvelope struct {
	Success bool           `json:"success"`
	Data    *FacetsPayload `json:"data"`
	Message string         `json:"message,omitempty"`
}

// FallbackSnapshot is the server-rendered product data embedded in the
// host page, used when the live API is unreachable on first load.
type FallbackSnapshot struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Empty reports whether the snapshot carries no products.
func (f *FallbackSnapshot) Empty() bool {
	return f == nil || len(f.Products) == 0
}
