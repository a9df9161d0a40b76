package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/shafiq-apps/afs-staging-sub001/pkg/errors"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("Get = %q, want %q", got, "v")
	}
}

func TestMemoryCache_MissIsTyped(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	defer c.Close()

	_, err := c.Get(context.Background(), "absent")
	if !errors.Is(err, pkgerrors.ErrCacheMiss) {
		t.Fatalf("Get(absent) = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_ExpiryReadsAsMiss(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), 15*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	if !errors.Is(err, pkgerrors.ErrCacheMiss) {
		t.Fatalf("Get after expiry = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_DeleteAndFlush(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "a", []byte("1"), 0)
	c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := c.Get(ctx, "a"); !errors.Is(err, pkgerrors.ErrCacheMiss) {
		t.Fatalf("Get(a) after Delete = %v, want ErrCacheMiss", err)
	}

	if err := c.Flush(ctx); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}
	if _, err := c.Get(ctx, "b"); !errors.Is(err, pkgerrors.ErrCacheMiss) {
		t.Fatalf("Get(b) after Flush = %v, want ErrCacheMiss", err)
	}
}
