package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/shafiq-apps/afs-staging-sub001/internal/catalog"
	"github.com/shafiq-apps/afs-staging-sub001/internal/domain/models"
	"github.com/shafiq-apps/afs-staging-sub001/pkg/interfaces"
)

// Keys with reserved meaning on the search API; anything else is a
// dynamic option handle.
var reservedParams = map[string]struct{}{
	"shop": {}, "cpid": {}, "page": {}, "limit": {}, "sort": {},
	"search": {}, "pricemin": {}, "pricemax": {},
}

// SearchHandler serves the devserver's /products and /filters.
type SearchHandler struct {
	catalog *catalog.Catalog
	logger  interfaces.LoggerPort
}

// NewSearchHandler builds the handler over a catalog.
func NewSearchHandler(c *catalog.Catalog, logger interfaces.LoggerPort) *SearchHandler {
	return &SearchHandler{catalog: c, logger: logger}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// Products handles GET /products.
func (h *SearchHandler) Products(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	payload := h.catalog.Search(q)
	render.Status(r, http.StatusOK)
	render.JSON(w, r, successResponse{Success: true, Data: payload})
}

// Filters handles GET /filters.
func (h *SearchHandler) Filters(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	defs := h.catalog.Facets(q)
	render.Status(r, http.StatusOK)
	render.JSON(w, r, successResponse{Success: true, Data: models.FacetsPayload{Filters: defs}})
}

// parseQuery maps the wire parameters onto a catalog query. The grammar
// matches what the query client emits: reserved keys plus handle=csv.
func (h *SearchHandler) parseQuery(w http.ResponseWriter, r *http.Request) (catalog.Query, bool) {
	values := r.URL.Query()

	if values.Get("shop") == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Success: false, Message: "shop parameter is required"})
		return catalog.Query{}, false
	}

	q := catalog.Query{
		Search:       values.Get("search"),
		CollectionID: values.Get("cpid"),
		Options:      map[string][]string{},
		Sort:         parseSort(values.Get("sort")),
	}

	if n, err := strconv.Atoi(values.Get("page")); err == nil && n >= 1 {
		q.Page = n
	}
	if n, err := strconv.Atoi(values.Get("limit")); err == nil && n >= 1 {
		q.Limit = n
	}
	if f, err := strconv.ParseFloat(values.Get("priceMin"), 64); err == nil {
		q.PriceMin = &f
	}
	if f, err := strconv.ParseFloat(values.Get("priceMax"), 64); err == nil {
		q.PriceMax = &f
	}

	q.Vendors = csv(values, models.HandleVendor)
	q.ProductTypes = csv(values, models.HandleProductType)
	q.Tags = csv(values, models.HandleTags)
	q.Collections = csv(values, models.HandleCollections)

	for key := range values {
		lower := strings.ToLower(key)
		if _, reserved := reservedParams[lower]; reserved {
			continue
		}
		switch lower {
		case strings.ToLower(models.HandleVendor),
			strings.ToLower(models.HandleProductType),
			strings.ToLower(models.HandleTags),
			strings.ToLower(models.HandleCollections):
			continue
		}
		if vals := csv(values, key); len(vals) > 0 {
			q.Options[key] = vals
		}
	}

	return q, true
}

func parseSort(token string) models.Sort {
	if token == "" {
		return models.DefaultSort()
	}
	if token == models.SortBestSelling {
		return models.NewSort(models.SortBestSelling, "")
	}
	field, order, found := strings.Cut(token, ":")
	if !found {
		return models.NewSort(token, models.OrderDesc)
	}
	return models.NewSort(field, order)
}

func csv(values url.Values, key string) []string {
	var out []string
	for _, raw := range values[key] {
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
