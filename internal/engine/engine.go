// Package engine orchestrates the filter widget: it is the only
// component that mutates the filter state, and it keeps the address
// bar, the in-memory state and the search API consistent.
package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shafiq-apps/afs-staging-sub001/internal/domain/models"
	"github.com/shafiq-apps/afs-staging-sub001/internal/facetindex"
	"github.com/shafiq-apps/afs-staging-sub001/internal/urlstate"
	"github.com/shafiq-apps/afs-staging-sub001/pkg/interfaces"
)

// Mode is the engine's operating mode.
type Mode int

const (
	// ModeLive queries the search API on every mutation.
	ModeLive Mode = iota
	// ModeFallback shows the server-rendered snapshot; mutations
	// rewrite the URL and force a full navigation. Fallback is
	// terminal for the session.
	ModeFallback
)

// Fetcher is the slice of the query client the engine needs.
type Fetcher interface {
	FetchProducts(ctx context.Context, state *models.FilterState) (*models.ProductsPayload, error)
	FetchFacets(ctx context.Context, state *models.FilterState) ([]models.FacetDefinition, error)
}

// Snapshot is what subscribers receive after every state change. The
// contained state is a clone; renderers cannot corrupt the canonical
// copy.
type Snapshot struct {
	State         *models.FilterState
	Products      []models.Product
	Facets        []models.FacetDefinition
	Mode          Mode
	UsingFallback bool
	Loading       bool
	Err           error
}

// Options wires an engine together. Everything is explicit: the engine
// holds no ambient globals.
type Options struct {
	Codec      *urlstate.Codec
	History    interfaces.HistoryPort
	Fetcher    Fetcher
	Logger     interfaces.LoggerPort
	Debounce   time.Duration
	Collection models.SelectedCollection
	Fallback   *models.FallbackSnapshot
}

// Engine is the sync controller. All mutation goes through its entry
// points; that is what preserves the URL <-> state invariant.
type Engine struct {
	codec    *urlstate.Codec
	history  interfaces.HistoryPort
	fetcher  Fetcher
	logger   interfaces.LoggerPort
	fallback *models.FallbackSnapshot

	mu       sync.Mutex
	state    *models.FilterState
	products []models.Product
	facets   []models.FacetDefinition
	index    *facetindex.Index
	mode     Mode
	loading  bool
	lastErr  error

	// Signatures of the last applied state, used to diff on popstate:
	// back/forward does not say which field changed.
	lastFilterSig string
	lastSortSig   string
	lastPage      int

	debounce *debouncer
	// fetchSeq tags fetch cycles for log correlation only. It is not a
	// generation token: results still apply in completion order.
	fetchSeq    uint64
	subscribers []func(Snapshot)
}

// New parses the current address bar into the initial state and hooks
// history navigation. Call Init afterwards to run the first load.
func New(opts Options) *Engine {
	e := &Engine{
		codec:    opts.Codec,
		history:  opts.History,
		fetcher:  opts.Fetcher,
		logger:   opts.Logger,
		fallback: opts.Fallback,
		index:    facetindex.New(),
	}
	if e.codec == nil {
		e.codec = &urlstate.Codec{}
	}

	window := opts.Debounce
	if window == 0 {
		window = 250 * time.Millisecond
	}
	e.debounce = newDebouncer(window, e.runIntent)

	e.state = e.codec.Decode(e.history.Current())
	e.state.Collection = opts.Collection
	e.rememberSignatures()

	e.history.OnPop(e.handlePop)
	return e
}

// Subscribe registers a renderer callback. Callbacks run synchronously
// on the mutating goroutine; keep them cheap.
func (e *Engine) Subscribe(fn func(Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers = append(e.subscribers, fn)
}

// State returns a clone of the current filter state.
func (e *Engine) State() *models.FilterState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Mode returns the current operating mode.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Init performs the first load: products and facets together, without
// debouncing. A failure here is the one place that can enter fallback
// mode; so can a success that returns zero products while a non-empty
// snapshot was configured.
func (e *Engine) Init(ctx context.Context) {
	e.mu.Lock()
	state := e.state.Clone()
	e.loading = true
	e.mu.Unlock()

	seq := atomic.AddUint64(&e.fetchSeq, 1)
	products, perr := e.fetcher.FetchProducts(ctx, state)
	facets, ferr := e.fetcher.FetchFacets(ctx, state)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.loading = false

	if perr != nil || ferr != nil {
		err := perr
		if err == nil {
			err = ferr
		}
		e.logger.WarnWithContext(ctx, "first load failed",
			interfaces.LogField{Key: "fetch_seq", Value: seq},
			interfaces.LogField{Key: "error", Value: err.Error()})
		if !e.fallback.Empty() {
			e.enterFallbackLocked()
		} else {
			e.lastErr = err
		}
		e.notifyLocked()
		return
	}

	if len(products.Products) == 0 && !e.fallback.Empty() {
		e.logger.InfoWithContext(ctx, "first load returned no products, using snapshot",
			interfaces.LogField{Key: "fetch_seq", Value: seq})
		e.enterFallbackLocked()
		e.notifyLocked()
		return
	}

	e.applyProductsLocked(products)
	e.applyFacetsLocked(facets)
	e.lastErr = nil
	e.notifyLocked()
}

// enterFallbackLocked switches to the server-rendered snapshot. Facets
// are hidden entirely: a partial or empty facet catalog cannot be
// trusted once the API has failed. Pagination comes from the snapshot's
// own metadata plus the page already on the URL.
func (e *Engine) enterFallbackLocked() {
	e.mode = ModeFallback
	e.products = e.fallback.Products
	e.facets = nil
	e.index.Clear()
	e.lastErr = nil

	p := models.NewPagination(e.state.Pagination.Page, e.fallback.Pagination.Limit)
	p.SetTotal(e.fallback.Pagination.Total)
	e.state.Pagination = p
}

// --- mutation entry points (user events) ---

// Toggle flips one value of a multi-select facet.
func (e *Engine) Toggle(key models.FilterKey, value string) {
	e.mutate(func() { e.state.Toggle(key, value) }, true)
}

// SetFilter replaces the value under key outright.
func (e *Engine) SetFilter(key models.FilterKey, value models.FilterValue) {
	e.mutate(func() { e.state.Set(key, value) }, true)
}

// SetSearch updates the search text filter.
func (e *Engine) SetSearch(text string) {
	e.mutate(func() {
		e.state.Set(models.StandardKey(models.KindSearch), models.TextValue(text))
	}, true)
}

// SetPriceRange updates the price filter; nil bounds are open.
func (e *Engine) SetPriceRange(min, max *float64) {
	e.mutate(func() {
		e.state.Set(models.StandardKey(models.KindPrice), models.RangeValue(min, max))
	}, true)
}

// ClearFilters removes every active filter.
func (e *Engine) ClearFilters() {
	e.mutate(func() { e.state.Clear() }, true)
}

// SetSort changes the sort. Facets are unaffected, so only products are
// refetched.
func (e *Engine) SetSort(sort models.Sort) {
	e.mutate(func() { e.state.Sort = sort }, true)
}

// SetPage moves to an explicit page. The one mutation that must NOT
// reset the page.
func (e *Engine) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	e.mutate(func() { e.state.Pagination.Page = page }, false)
}

// mutate runs the state change, resets the page when asked, rewrites
// the URL, and schedules the debounced fetch. In fallback mode the URL
// rewrite becomes a full navigation instead: the snapshot has no live
// aggregation to offer.
func (e *Engine) mutate(apply func(), resetPage bool) {
	e.mu.Lock()

	beforeFilters := e.state.FilterSignature()
	beforeSort := e.state.Sort.Signature()
	apply()
	filtersChanged := e.state.FilterSignature() != beforeFilters
	sortChanged := e.state.Sort.Signature() != beforeSort

	if resetPage && (filtersChanged || sortChanged) {
		e.state.Pagination.Page = 1
	}
	e.rememberSignatures()
	encoded := e.codec.Encode(e.state)
	mode := e.mode
	e.mu.Unlock()

	if mode == ModeFallback {
		e.history.Navigate(encoded)
		return
	}

	e.history.Push(encoded)
	if filtersChanged {
		e.debounce.schedule(intentFull)
	} else {
		e.debounce.schedule(intentProducts)
	}
}

// handlePop re-parses the URL from scratch and diffs against the last
// applied signatures to pick the cheapest fan-out.
func (e *Engine) handlePop(queryStr string) {
	next := e.codec.Decode(queryStr)

	e.mu.Lock()
	next.Collection = e.state.Collection
	next.Pagination.Total = e.state.Pagination.Total
	next.Pagination.TotalPages = e.state.Pagination.TotalPages

	filtersChanged := next.FilterSignature() != e.lastFilterSig
	sortChanged := next.Sort.Signature() != e.lastSortSig
	pageChanged := next.Pagination.Page != e.lastPage

	e.state = next
	e.rememberSignatures()
	mode := e.mode
	e.mu.Unlock()

	if mode == ModeFallback {
		e.history.Navigate(queryStr)
		return
	}

	switch {
	case filtersChanged:
		e.debounce.schedule(intentFull)
	case sortChanged || pageChanged:
		e.debounce.schedule(intentProducts)
	}
}

// Flush runs any pending debounced fetch immediately.
func (e *Engine) Flush() {
	e.debounce.flush()
}

// Close drops pending work. The engine itself lives for the page.
func (e *Engine) Close() {
	e.debounce.stop()
}

// runIntent executes one fetch cycle for the state as of now. Results
// apply in completion order; the debounce window plus cache-key
// equality keep stale overwrites benign in practice.
func (e *Engine) runIntent(it intent) {
	ctx := context.Background()
	seq := atomic.AddUint64(&e.fetchSeq, 1)

	e.mu.Lock()
	state := e.state.Clone()
	e.loading = true
	e.notifyLocked()
	e.mu.Unlock()

	products, perr := e.fetcher.FetchProducts(ctx, state)
	var facets []models.FacetDefinition
	var ferr error
	if it == intentFull {
		facets, ferr = e.fetcher.FetchFacets(ctx, state)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.loading = false

	if perr != nil || ferr != nil {
		err := perr
		if err == nil {
			err = ferr
		}
		// Transient: the user can retry by mutating again. No fallback
		// transition after the first load.
		e.logger.WarnWithContext(ctx, "fetch cycle failed",
			interfaces.LogField{Key: "fetch_seq", Value: seq},
			interfaces.LogField{Key: "error", Value: err.Error()})
		e.lastErr = err
		e.notifyLocked()
		return
	}

	e.applyProductsLocked(products)
	if it == intentFull {
		e.applyFacetsLocked(facets)
	}
	e.lastErr = nil
	e.notifyLocked()
}

func (e *Engine) applyProductsLocked(payload *models.ProductsPayload) {
	e.products = payload.Products
	e.state.Pagination.Total = payload.Pagination.Total
	e.state.Pagination.TotalPages = payload.Pagination.TotalPages
}

// applyFacetsLocked installs a new facet catalog and rebuilds the
// metadata index. The index rebuild is tied to catalog identity, not to
// renders.
func (e *Engine) applyFacetsLocked(defs []models.FacetDefinition) {
	renderable := make([]models.FacetDefinition, 0, len(defs))
	for _, d := range defs {
		if d.Renderable() {
			renderable = append(renderable, d)
		}
	}
	e.facets = renderable
	e.index.Build(renderable)
}

// FacetMetadata resolves a handle through the metadata index.
func (e *Engine) FacetMetadata(handle string) (facetindex.Metadata, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index.Lookup(handle)
}

func (e *Engine) rememberSignatures() {
	e.lastFilterSig = e.state.FilterSignature()
	e.lastSortSig = e.state.Sort.Signature()
	e.lastPage = e.state.Pagination.Page
}

func (e *Engine) notifyLocked() {
	snap := Snapshot{
		State:         e.state.Clone(),
		Products:      e.products,
		Facets:        e.facets,
		Mode:          e.mode,
		UsingFallback: e.mode == ModeFallback,
		Loading:       e.loading,
		Err:           e.lastErr,
	}
	for _, fn := range e.subscribers {
		fn(snap)
	}
}
