// Package urlstate owns the bidirectional mapping between the address
// bar query string and the in-memory filter state. Every encoding
// decision (legacy vs. current sort and price syntax) lives here.
package urlstate

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/shafiq-apps/afs-staging-sub001/internal/domain/models"
)

// Site and session plumbing that must never be treated as a filter.
var excludedKeys = map[string]struct{}{
	"shop":             {},
	"cpid":             {},
	"key":              {},
	"view":             {},
	"variant":          {},
	"preview_theme_id": {},
	"_pos":             {},
	"_sid":             {},
	"_ss":              {},
	"fbclid":           {},
	"gclid":            {},
}

// Aliases for the standard keys, matched case-insensitively.
var standardAliases = map[string]models.StandardKind{
	"vendor":       models.KindVendor,
	"producttype":  models.KindProductType,
	"product_type": models.KindProductType,
	"type":         models.KindProductType,
	"tag":          models.KindTags,
	"tags":         models.KindTags,
	"collection":   models.KindCollections,
	"collections":  models.KindCollections,
	"search":       models.KindSearch,
	"q":            models.KindSearch,
}

// Codec converts between query strings and filter state. The zero value
// is usable; the two fields carry host-page context.
type Codec struct {
	// PriceHandle is the server-assigned handle of the price facet, if
	// any. When set, price ranges are written as "{handle}=min-max".
	PriceHandle string

	// SearchTemplate marks a native search page. Search text is then
	// written under "q" instead of "search". Parsing accepts both keys
	// unconditionally.
	SearchTemplate bool
}

// ParsedParams is the flat result of decoding one query string. Dynamic
// handles are kept verbatim; no validation against the facet catalog
// happens here, because the catalog may not have loaded yet.
type ParsedParams struct {
	Vendors      []string
	ProductTypes []string
	Tags         []string
	Collections  []string
	Search       string
	Page         int
	Limit        int
	Sort         *models.Sort
	PriceMin     *float64
	PriceMax     *float64
	Dynamic      map[string][]string
}

// Parse decodes a raw query string (with or without a leading "?").
func (c *Codec) Parse(rawQuery string) ParsedParams {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		// Salvage whatever ParseQuery managed to decode before the
		// malformed pair; a broken shared URL still filters partially.
		if values == nil {
			values = url.Values{}
		}
	}

	p := ParsedParams{Dynamic: make(map[string][]string)}
	searchFromQ := false
	for key, raw := range values {
		lower := strings.ToLower(key)
		if _, drop := excludedKeys[lower]; drop {
			continue
		}
		if strings.HasPrefix(lower, "utm_") {
			continue
		}

		joined := strings.Join(raw, ",")

		if kind, ok := standardAliases[lower]; ok {
			switch kind {
			case models.KindVendor:
				p.Vendors = mergeCSV(p.Vendors, joined)
			case models.KindProductType:
				p.ProductTypes = mergeCSV(p.ProductTypes, joined)
			case models.KindTags:
				p.Tags = mergeCSV(p.Tags, joined)
			case models.KindCollections:
				p.Collections = mergeCSV(p.Collections, joined)
			case models.KindSearch:
				// "q" beats "search" when a URL carries both, regardless
				// of map iteration order.
				if v := strings.TrimSpace(raw[0]); v != "" {
					if lower == "q" {
						p.Search = v
						searchFromQ = true
					} else if !searchFromQ && p.Search == "" {
						p.Search = v
					}
				}
			}
			continue
		}

		switch lower {
		case "page":
			if n, err := strconv.Atoi(raw[0]); err == nil && n >= 1 {
				p.Page = n
			}
		case "limit":
			if n, err := strconv.Atoi(raw[0]); err == nil && n >= 1 {
				p.Limit = n
			}
		case "sort", "sort_by", "sortby":
			s := parseSort(raw[0])
			p.Sort = &s
		case "pricemin", "price_min":
			if f, ok := parseAmount(raw[0]); ok {
				p.PriceMin = &f
			}
		case "pricemax", "price_max":
			if f, ok := parseAmount(raw[0]); ok {
				p.PriceMax = &f
			}
		case "price", "pricerange", "price_range":
			c.parseRangeToken(raw[0], &p)
		default:
			if c.PriceHandle != "" && strings.EqualFold(key, c.PriceHandle) {
				c.parseRangeToken(raw[0], &p)
				continue
			}
			p.Dynamic[key] = mergeCSV(p.Dynamic[key], joined)
		}
	}
	return p
}

// State builds a FilterState out of parsed parameters. Classification
// happens exactly once here; the tagged keys are carried thereafter.
func (c *Codec) State(p ParsedParams) *models.FilterState {
	s := models.NewFilterState()

	s.Set(models.StandardKey(models.KindVendor), models.SetValue(p.Vendors...))
	s.Set(models.StandardKey(models.KindProductType), models.SetValue(p.ProductTypes...))
	s.Set(models.StandardKey(models.KindTags), models.SetValue(p.Tags...))
	s.Set(models.StandardKey(models.KindCollections), models.SetValue(p.Collections...))
	s.Set(models.StandardKey(models.KindSearch), models.TextValue(p.Search))
	if p.PriceMin != nil || p.PriceMax != nil {
		s.Set(models.StandardKey(models.KindPrice), models.RangeValue(p.PriceMin, p.PriceMax))
	}

	for handle, vals := range p.Dynamic {
		s.Set(models.DynamicKey(handle), models.SetValue(vals...))
	}

	page := p.Page
	if page < 1 {
		page = 1
	}
	s.Pagination = models.NewPagination(page, p.Limit)
	if p.Sort != nil {
		s.Sort = *p.Sort
	}
	return s
}

// Decode is Parse followed by State.
func (c *Codec) Decode(rawQuery string) *models.FilterState {
	return c.State(c.Parse(rawQuery))
}

// Encode serializes state into a query string, mirroring Parse so that
// Decode(Encode(s)) reproduces s. Defaults stay off the URL: page 1 is
// omitted, limit is never written, the default sort is omitted.
func (c *Codec) Encode(s *models.FilterState) string {
	var pairs []string
	add := func(key, value string) {
		pairs = append(pairs, escape(key)+"="+escapeValue(value))
	}

	if e, ok := s.Filters[models.HandleSearch]; ok {
		key := models.HandleSearch
		if c.SearchTemplate {
			key = "q"
		}
		add(key, e.Value.Text)
	}
	for _, handle := range []string{
		models.HandleVendor,
		models.HandleProductType,
		models.HandleTags,
		models.HandleCollections,
	} {
		if e, ok := s.Filters[handle]; ok {
			add(handle, strings.Join(e.Value.SortedValues(), ","))
		}
	}

	if e, ok := s.Filters[models.HandlePrice]; ok && e.Value.Range != nil {
		c.encodeRange(e.Value.Range, add)
	}

	dynamic := make([]string, 0, len(s.Filters))
	for handle, e := range s.Filters {
		if e.Key.Kind == models.KindDynamic {
			dynamic = append(dynamic, handle)
		}
	}
	sort.Strings(dynamic)
	for _, handle := range dynamic {
		add(handle, strings.Join(s.Filters[handle].Value.SortedValues(), ","))
	}

	if s.Sort != models.DefaultSort() {
		add("sort", encodeSort(s.Sort))
	}
	if s.Pagination.Page > 1 {
		add("page", strconv.Itoa(s.Pagination.Page))
	}

	return strings.Join(pairs, "&")
}

// encodeRange writes the price range in the current wire format, unless
// a server-assigned price handle is known, in which case the combined
// "min-max" token goes on that handle for compatibility with the links
// the storefront itself renders.
func (c *Codec) encodeRange(r *models.PriceRange, add func(key, value string)) {
	if c.PriceHandle != "" {
		var b strings.Builder
		if r.Min != nil {
			b.WriteString(models.FormatAmount(*r.Min))
		}
		b.WriteByte('-')
		if r.Max != nil {
			b.WriteString(models.FormatAmount(*r.Max))
		}
		add(c.PriceHandle, b.String())
		return
	}
	if r.Min != nil {
		add("priceMin", models.FormatAmount(*r.Min))
	}
	if r.Max != nil {
		add("priceMax", models.FormatAmount(*r.Max))
	}
}

// parseRangeToken accepts the legacy combined "min-max" token. Either
// side may be blank; a bare number is treated as a minimum.
func (c *Codec) parseRangeToken(token string, p *ParsedParams) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}

	minPart, maxPart, found := strings.Cut(token, "-")
	if !found {
		maxPart = ""
	}
	if f, ok := parseAmount(minPart); ok {
		p.PriceMin = &f
	}
	if f, ok := parseAmount(maxPart); ok {
		p.PriceMax = &f
	}
}

// parseSort accepts three formats, in precedence order: the literal
// best-selling token, the current hyphenated "field-direction" form and
// the legacy colon "field:order" form.
func parseSort(token string) models.Sort {
	token = strings.TrimSpace(token)
	if token == models.SortBestSelling {
		return models.NewSort(models.SortBestSelling, "")
	}

	if i := strings.LastIndexByte(token, '-'); i > 0 {
		field, dir := token[:i], token[i+1:]
		switch strings.ToLower(dir) {
		case "ascending":
			return models.NewSort(field, models.OrderAsc)
		case "descending":
			return models.NewSort(field, models.OrderDesc)
		}
	}

	if field, order, found := strings.Cut(token, ":"); found {
		switch strings.ToLower(order) {
		case "asc", "ascending":
			return models.NewSort(field, models.OrderAsc)
		default:
			return models.NewSort(field, models.OrderDesc)
		}
	}

	return models.NewSort(token, models.OrderDesc)
}

// encodeSort always emits the current format: the bare best-selling
// token, or "field-direction".
func encodeSort(s models.Sort) string {
	if s.IsBestSelling() {
		return models.SortBestSelling
	}
	dir := "descending"
	if s.Order == models.OrderAsc {
		dir = "ascending"
	}
	return s.Field + "-" + dir
}

func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}

func mergeCSV(dst []string, joined string) []string {
	for _, v := range strings.Split(joined, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		dup := false
		for _, existing := range dst {
			if existing == v {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, v)
		}
	}
	return dst
}

// escape encodes a query component, keeping commas literal so that
// multi-value lists stay readable in the address bar. Values arrive
// unencoded and are encoded exactly once here.
func escapeValue(s string) string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = url.QueryEscape(p)
	}
	return strings.Join(parts, ",")
}

func escape(s string) string {
	return url.QueryEscape(s)
}
