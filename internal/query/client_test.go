package query

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shafiq-apps/afs-staging-sub001/internal/adapters/cache"
	"github.com/shafiq-apps/afs-staging-sub001/internal/adapters/logger"
	"github.com/shafiq-apps/afs-staging-sub001/internal/domain/models"
)

const productsBody = `{"success":true,"data":{"products":[{"id":"p1","handle":"p1","title":"P1","price":10,"available":true}],"pagination":{"page":1,"limit":24,"total":1,"totalPages":1}}}`

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg Config) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	if cfg.Shop == "" {
		cfg.Shop = "demo.myshopify.com"
	}

	store := cache.NewMemoryCache(time.Minute, time.Minute)
	t.Cleanup(func() { store.Close() })

	return New(cfg, store, logger.NewNop(), nil), srv
}

func TestFetchProducts_Success(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(productsBody))
	}, Config{})

	state := models.NewFilterState()
	state.Set(models.StandardKey(models.KindVendor), models.SetValue("Nike"))
	state.Collection.ID = "col-1"

	payload, err := client.FetchProducts(context.Background(), state)
	if err != nil {
		t.Fatalf("FetchProducts returned error: %v", err)
	}
	if len(payload.Products) != 1 || payload.Products[0].ID != "p1" {
		t.Fatalf("Products = %v, want one product p1", payload.Products)
	}
	if payload.Pagination.Total != 1 {
		t.Fatalf("Total = %d, want 1", payload.Pagination.Total)
	}

	for _, want := range []string{"shop=demo.myshopify.com", "cpid=col-1", "vendor=Nike", "page=1"} {
		if !containsParam(gotQuery, want) {
			t.Fatalf("request query = %q, want it to contain %q", gotQuery, want)
		}
	}
}

func containsParam(query, pair string) bool {
	for _, p := range splitAmp(query) {
		if p == pair {
			return true
		}
	}
	return false
}

func splitAmp(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '&' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}

func TestFetchProducts_UnsuccessfulEnvelopeOn200(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"index rebuilding"}`))
	}, Config{})

	_, err := client.FetchProducts(context.Background(), models.NewFilterState())
	if err == nil {
		t.Fatalf("FetchProducts succeeded, want shape error")
	}
	if KindOf(err) != KindShape {
		t.Fatalf("KindOf = %v, want KindShape", KindOf(err))
	}
}

func TestFetchProducts_HTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}, Config{})

	_, err := client.FetchProducts(context.Background(), models.NewFilterState())
	if KindOf(err) != KindHTTP {
		t.Fatalf("KindOf = %v, want KindHTTP (err=%v)", KindOf(err), err)
	}

	var qe *Error
	if !errors.As(err, &qe) || qe.Status != http.StatusBadGateway {
		t.Fatalf("Status = %v, want 502", err)
	}
}

func TestFetchProducts_Timeout(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(productsBody))
	}, Config{ProductTimeout: 30 * time.Millisecond})

	_, err := client.FetchProducts(context.Background(), models.NewFilterState())
	if KindOf(err) != KindTimeout {
		t.Fatalf("KindOf = %v, want KindTimeout (err=%v)", KindOf(err), err)
	}
}

func TestFetchProducts_ParseError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":tru`))
	}, Config{})

	_, err := client.FetchProducts(context.Background(), models.NewFilterState())
	if KindOf(err) != KindParse {
		t.Fatalf("KindOf = %v, want KindParse (err=%v)", KindOf(err), err)
	}
}

func TestFetchFacets_NonArrayFiltersDegradesToEmpty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"filters":"not-an-array"}}`))
	}, Config{})

	defs, err := client.FetchFacets(context.Background(), models.NewFilterState())
	if err != nil {
		t.Fatalf("FetchFacets returned error: %v", err)
	}
	if len(defs) != 0 {
		t.Fatalf("defs = %v, want empty catalog", defs)
	}
}

func TestFetchFacets_OmitsPaginationAndSort(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"success":true,"data":{"filters":[{"handle":"vendor","label":"Vendor","values":[{"value":"Nike","count":3}]}]}}`))
	}, Config{})

	state := models.NewFilterState()
	state.Pagination.Page = 7
	state.Sort = models.NewSort("price", models.OrderAsc)

	defs, err := client.FetchFacets(context.Background(), state)
	if err != nil {
		t.Fatalf("FetchFacets returned error: %v", err)
	}
	if len(defs) != 1 || defs[0].Handle != "vendor" {
		t.Fatalf("defs = %v, want the vendor facet", defs)
	}
	if containsParam(gotQuery, "page=7") {
		t.Fatalf("request query = %q: facet queries must not carry pagination", gotQuery)
	}
	if strings.Contains(gotQuery, "sort=") {
		t.Fatalf("request query = %q: facet queries must not carry sort", gotQuery)
	}
}

func TestFetchProducts_SecondCallServedFromCache(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(productsBody))
	}, Config{})

	state := models.NewFilterState()
	for i := 0; i < 2; i++ {
		if _, err := client.FetchProducts(context.Background(), state); err != nil {
			t.Fatalf("call %d returned error: %v", i, err)
		}
	}

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("network calls = %d, want 1 (second call must hit the cache)", n)
	}
}

func TestFetchProducts_TTLExpiryIsAMiss(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(productsBody))
	}, Config{ProductTTL: 20 * time.Millisecond})

	state := models.NewFilterState()
	if _, err := client.FetchProducts(context.Background(), state); err != nil {
		t.Fatalf("first call returned error: %v", err)
	}

	time.Sleep(40 * time.Millisecond)

	if _, err := client.FetchProducts(context.Background(), state); err != nil {
		t.Fatalf("second call returned error: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("network calls = %d, want 2 (expired entry must refetch)", n)
	}
}

func TestFetchProducts_ConcurrentCallsDeduplicated(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		<-release
		w.Write([]byte(productsBody))
	}, Config{})

	state := models.NewFilterState()
	state.Set(models.StandardKey(models.KindVendor), models.SetValue("Nike"))

	var wg sync.WaitGroup
	results := make([]*models.ProductsPayload, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = client.FetchProducts(context.Background(), state)
	}()

	// Let the first caller claim the pending slot before the second
	// computes the same key.
	time.Sleep(50 * time.Millisecond)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = client.FetchProducts(context.Background(), state.Clone())
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < 2; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d returned error: %v", i, errs[i])
		}
		if len(results[i].Products) != 1 {
			t.Fatalf("caller %d got %d products, want 1", i, len(results[i].Products))
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("network calls = %d, want exactly 1", n)
	}
}

func TestFetchProducts_JoinedCallerDeadlineIsTimeout(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(productsBody))
	}, Config{})

	state := models.NewFilterState()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		client.FetchProducts(context.Background(), state)
	}()

	// Let the first caller claim the pending slot.
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := client.FetchProducts(ctx, state.Clone())
	if KindOf(err) != KindTimeout {
		t.Fatalf("KindOf = %v, want KindTimeout for a joined caller whose deadline fired (err=%v)", KindOf(err), err)
	}

	close(release)
	wg.Wait()
}

func TestFetchProducts_PendingEntryClearedAfterFailure(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(productsBody))
	}, Config{})

	state := models.NewFilterState()
	if _, err := client.FetchProducts(context.Background(), state); KindOf(err) != KindHTTP {
		t.Fatalf("first call: KindOf = %v, want KindHTTP", KindOf(err))
	}

	// The failed call must not leave a poisoned pending entry behind.
	if _, err := client.FetchProducts(context.Background(), state); err != nil {
		t.Fatalf("retry returned error: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("network calls = %d, want 2", n)
	}
}
