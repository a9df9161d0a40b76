// Command afs-sim wires a full widget engine against a search API (the
// devserver by default) and replays a scripted mutation burst. Useful
// for watching the debounce, cache and fallback behavior live.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shafiq-apps/afs-staging-sub001/config"
	"github.com/shafiq-apps/afs-staging-sub001/internal/adapters/cache"
	"github.com/shafiq-apps/afs-staging-sub001/internal/adapters/history"
	"github.com/shafiq-apps/afs-staging-sub001/internal/adapters/logger"
	"github.com/shafiq-apps/afs-staging-sub001/internal/domain/models"
	"github.com/shafiq-apps/afs-staging-sub001/internal/engine"
	"github.com/shafiq-apps/afs-staging-sub001/internal/query"
	"github.com/shafiq-apps/afs-staging-sub001/internal/urlstate"
	"github.com/shafiq-apps/afs-staging-sub001/pkg/interfaces"
	"github.com/shafiq-apps/afs-staging-sub001/pkg/money"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewZapLogger(cfg.LogLevel, false)
	if err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	var store interfaces.CachePort
	if cfg.Cache.Backend == "redis" {
		store, err = cache.NewRedisCache(ctx, cfg.Shop.Domain, cache.RedisOptions{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.Fatal("failed to init redis cache", interfaces.LogField{Key: "error", Value: err.Error()})
		}
	} else {
		store = cache.NewMemoryCache(cfg.Cache.ProductTTL, cfg.Cache.CleanupInterval)
	}
	defer store.Close()

	client := query.New(query.Config{
		BaseURL:        cfg.API.BaseURL,
		Shop:           cfg.Shop.Domain,
		ProductTimeout: cfg.API.ProductTimeout,
		FacetTimeout:   cfg.API.FacetTimeout,
		ProductTTL:     cfg.Cache.ProductTTL,
		FacetTTL:       cfg.Cache.FacetTTL,
	}, store, log, query.NewMetrics(prometheus.DefaultRegisterer))

	hist := history.NewMemory("")
	eng := engine.New(engine.Options{
		Codec: &urlstate.Codec{
			PriceHandle:    cfg.Shop.PriceHandle,
			SearchTemplate: cfg.Shop.SearchTemplate,
		},
		History:  hist,
		Fetcher:  client,
		Logger:   log,
		Debounce: cfg.Engine.Debounce,
		Collection: models.SelectedCollection{
			ID:     cfg.Shop.CollectionID,
			SortBy: cfg.Shop.CollectionSortBy,
		},
	})
	defer eng.Close()

	moneyFormat := cfg.Shop.MoneyFormat
	eng.Subscribe(func(snap engine.Snapshot) {
		fmt.Printf("[state] mode=%d loading=%v products=%d facets=%d url=%q err=%v\n",
			snap.Mode, snap.Loading, len(snap.Products), len(snap.Facets), hist.Current(), snap.Err)
		for _, f := range snap.Facets {
			if f.IsRange() {
				fmt.Printf("[facet] %s: %s to %s\n", f.Label,
					money.Format(moneyFormat, f.Range.Min),
					money.Format(moneyFormat, f.Range.Max))
			}
		}
	})

	eng.Init(ctx)

	// A burst of toggles; the debouncer should collapse them into one
	// fetch cycle reflecting the final state.
	vendor := models.StandardKey(models.KindVendor)
	eng.Toggle(vendor, "Nike")
	eng.Toggle(vendor, "Adidas")
	eng.Toggle(vendor, "Adidas")
	eng.SetPriceRange(floatPtr(20), floatPtr(120))
	eng.Flush()

	eng.SetSort(models.NewSort(models.SortBestSelling, ""))
	eng.Flush()

	eng.SetPage(2)
	eng.Flush()

	// Let any trailing notification land before exit.
	time.Sleep(200 * time.Millisecond)
}

func floatPtr(v float64) *float64 { return &v }
