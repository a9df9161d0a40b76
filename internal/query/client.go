// Package query turns filter state into outbound search API requests.
// It owns response caching, in-flight deduplication and timeouts; it is
// the only package that talks HTTP to the faceted-search service.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shafiq-apps/afs-staging-sub001/internal/domain/models"
	pkgerrors "github.com/shafiq-apps/afs-staging-sub001/pkg/errors"
	"github.com/shafiq-apps/afs-staging-sub001/pkg/interfaces"
)

// Config carries the per-shop client settings. Facet budgets run longer
// than product budgets: aggregations are slower and change less often.
type Config struct {
	BaseURL string
	Shop    string

	ProductTimeout time.Duration
	FacetTimeout   time.Duration
	ProductTTL     time.Duration
	FacetTTL       time.Duration
}

// Client is the query client. Safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	cache   interfaces.CachePort
	logger  interfaces.LoggerPort
	metrics *Metrics

	mu      sync.Mutex
	pending map[string]*call
}

// call is one in-flight request shared between every caller that
// computed the same cache key before it settled.
type call struct {
	done  chan struct{}
	value []byte
	err   error
}

// New builds a client. metrics may be nil to disable instrumentation.
func New(cfg Config, cache interfaces.CachePort, logger interfaces.LoggerPort, metrics *Metrics) *Client {
	if cfg.ProductTimeout == 0 {
		cfg.ProductTimeout = 8 * time.Second
	}
	if cfg.FacetTimeout == 0 {
		cfg.FacetTimeout = 15 * time.Second
	}
	if cfg.ProductTTL == 0 {
		cfg.ProductTTL = time.Minute
	}
	if cfg.FacetTTL == 0 {
		cfg.FacetTTL = 5 * time.Minute
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{},
		cache:   cache,
		logger:  logger,
		metrics: metrics,
		pending: make(map[string]*call),
	}
}

// FetchProducts runs a products query for the given state.
func (c *Client) FetchProducts(ctx context.Context, state *models.FilterState) (*models.ProductsPayload, error) {
	key := ProductsKey(state)
	raw, err := c.resolve(ctx, "products", key, c.cfg.ProductTTL, func(ctx context.Context) ([]byte, error) {
		return c.fetchProducts(ctx, state)
	})
	if err != nil {
		return nil, err
	}

	var payload models.ProductsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &Error{Kind: KindParse, Endpoint: "products", Err: err}
	}
	return &payload, nil
}

// FetchFacets runs a filters query for the given state. Pagination does
// not participate: facet counts are invariant across pages.
func (c *Client) FetchFacets(ctx context.Context, state *models.FilterState) ([]models.FacetDefinition, error) {
	key := FacetsKey(state)
	raw, err := c.resolve(ctx, "facets", key, c.cfg.FacetTTL, func(ctx context.Context) ([]byte, error) {
		return c.fetchFacets(ctx, state)
	})
	if err != nil {
		return nil, err
	}

	var defs []models.FacetDefinition
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, &Error{Kind: KindParse, Endpoint: "facets", Err: err}
	}
	return defs, nil
}

// InvalidateProducts drops the cached entry for the given state, used
// by hosts after cart mutations that change availability.
func (c *Client) InvalidateProducts(ctx context.Context, state *models.FilterState) error {
	return c.cache.Delete(ctx, ProductsKey(state))
}

// resolve serves from cache, joins an in-flight call, or fetches.
// The pending entry for a key is always removed when its call settles,
// success or failure.
func (c *Client) resolve(ctx context.Context, endpoint, key string, ttl time.Duration, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	if raw, err := c.cache.Get(ctx, key); err == nil {
		if c.metrics != nil {
			c.metrics.CacheHits.WithLabelValues(endpoint).Inc()
		}
		return raw, nil
	} else if !errors.Is(err, pkgerrors.ErrCacheMiss) {
		// A broken cache backend must not take the widget down; log
		// and fall through to the network.
		c.logger.WarnWithContext(ctx, "cache read failed",
			interfaces.LogField{Key: "key", Value: key},
			interfaces.LogField{Key: "error", Value: err.Error()})
	}

	c.mu.Lock()
	if inflight, ok := c.pending[key]; ok {
		c.mu.Unlock()
		if c.metrics != nil {
			c.metrics.DedupJoins.WithLabelValues(endpoint).Inc()
		}
		select {
		case <-inflight.done:
			return inflight.value, inflight.err
		case <-ctx.Done():
			kind := KindNetwork
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				kind = KindTimeout
			}
			return nil, &Error{Kind: kind, Endpoint: endpoint, Err: ctx.Err()}
		}
	}
	cl := &call{done: make(chan struct{})}
	c.pending[key] = cl
	c.mu.Unlock()

	start := time.Now()
	cl.value, cl.err = fetch(ctx)

	c.mu.Lock()
	delete(c.pending, key)
	c.mu.Unlock()
	close(cl.done)

	if c.metrics != nil {
		result := "ok"
		if cl.err != nil {
			result = KindOf(cl.err).String()
		}
		c.metrics.Requests.WithLabelValues(endpoint, result).Inc()
		c.metrics.Duration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}

	if cl.err != nil {
		return nil, cl.err
	}
	if err := c.cache.Set(ctx, key, cl.value, ttl); err != nil {
		c.logger.WarnWithContext(ctx, "cache write failed",
			interfaces.LogField{Key: "key", Value: key},
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
	return cl.value, nil
}

func (c *Client) fetchProducts(ctx context.Context, state *models.FilterState) ([]byte, error) {
	params := c.buildParams(state, true)
	body, err := c.get(ctx, "products", c.cfg.ProductTimeout, params)
	if err != nil {
		return nil, err
	}

	var envelope models.ProductsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &Error{Kind: KindParse, Endpoint: "products", Err: err}
	}
	if !envelope.Success || envelope.Data == nil {
		return nil, &Error{Kind: KindShape, Endpoint: "products",
			Err: fmt.Errorf("unsuccessful envelope: %s", envelope.Message)}
	}
	if envelope.Data.Products == nil {
		envelope.Data.Products = []models.Product{}
	}
	return json.Marshal(envelope.Data)
}

func (c *Client) fetchFacets(ctx context.Context, state *models.FilterState) ([]byte, error) {
	params := c.buildParams(state, false)
	body, err := c.get(ctx, "filters", c.cfg.FacetTimeout, params)
	if err != nil {
		return nil, err
	}

	// The filters envelope tolerates a non-array data.filters by
	// degrading to an empty catalog rather than failing the fetch.
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &Error{Kind: KindParse, Endpoint: "facets", Err: err}
	}
	if !envelope.Success || len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, &Error{Kind: KindShape, Endpoint: "facets",
			Err: fmt.Errorf("unsuccessful envelope: %s", envelope.Message)}
	}

	var payload models.FacetsPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil || payload.Filters == nil {
		payload.Filters = []models.FacetDefinition{}
	}
	return json.Marshal(payload.Filters)
}

// get issues one GET with the endpoint's timeout budget and classifies
// every failure into a typed error.
func (c *Client) get(ctx context.Context, endpoint string, timeout time.Duration, params url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqURL := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &Error{Kind: KindTimeout, Endpoint: endpoint, Err: err}
		}
		return nil, &Error{Kind: KindNetwork, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &Error{Kind: KindHTTP, Endpoint: endpoint, Status: resp.StatusCode,
			Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Endpoint: endpoint, Err: err}
	}
	return body, nil
}

// buildParams is purely mechanical: every active filter goes out as
// handle=csv, with search and price on their reserved keys. The
// collection scope is always appended.
func (c *Client) buildParams(state *models.FilterState, withPagination bool) url.Values {
	params := url.Values{}
	params.Set("shop", c.cfg.Shop)
	if state.Collection.ID != "" {
		params.Set("cpid", state.Collection.ID)
	}

	// Facet queries carry neither pagination nor sort: aggregations are
	// invariant under both.
	if withPagination {
		params.Set("page", strconv.Itoa(state.Pagination.Page))
		params.Set("limit", strconv.Itoa(state.Pagination.Limit))
		if state.Sort.IsBestSelling() {
			params.Set("sort", models.SortBestSelling)
		} else {
			params.Set("sort", state.Sort.Field+":"+state.Sort.Order)
		}
	}

	for handle, e := range state.Filters {
		switch {
		case e.Key.Kind == models.KindSearch:
			params.Set("search", e.Value.Text)
		case e.Key.Kind == models.KindPrice:
			if e.Value.Range.Min != nil {
				params.Set("priceMin", models.FormatAmount(*e.Value.Range.Min))
			}
			if e.Value.Range.Max != nil {
				params.Set("priceMax", models.FormatAmount(*e.Value.Range.Max))
			}
		default:
			params.Set(handle, strings.Join(e.Value.SortedValues(), ","))
		}
	}
	return params
}
