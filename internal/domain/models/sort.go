package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Sort orders. Unrecognized wire tokens collapse to OrderDesc.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// SortBestSelling has no order semantics; it serializes as the bare
// token and carries a fixed canonical order internally so that equal
// sorts always produce equal signatures.
const SortBestSelling = "best-selling"

// Sort is the active sort field and direction.
type Sort struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// DefaultSort is what a page starts with before any user choice.
func DefaultSort() Sort {
	return Sort{Field: "created", Order: OrderDesc}
}

// NewSort normalizes the order token and pins best-selling to its
// canonical order.
func NewSort(field, order string) Sort {
	if field == SortBestSelling {
		return Sort{Field: SortBestSelling, Order: OrderDesc}
	}
	if order != OrderAsc {
		order = OrderDesc
	}
	return Sort{Field: field, Order: order}
}

// IsBestSelling reports whether the sort is the orderless special case.
func (s Sort) IsBestSelling() bool { return s.Field == SortBestSelling }

// Signature returns a stable textual form used for popstate diffing.
func (s Sort) Signature() string {
	if s.IsBestSelling() {
		return SortBestSelling
	}
	return fmt.Sprintf("%s:%s", s.Field, s.Order)
}

// FormatAmount renders a price bound without trailing zeros, so that
// "10" round-trips as "10" and "10.5" as "10.5".
func FormatAmount(v float64) string {
	out := strconv.FormatFloat(v, 'f', 2, 64)
	out = strings.TrimRight(out, "0")
	out = strings.TrimSuffix(out, ".")
	return out
}
