package squidcache

import (
	"context"
	"testing"
)

func TestRecordAndLastUsed(t *testing.T) {
	ctx := context.Background()
	cache, err := NewWithPath(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("NewWithPath() error = %v", err)
	}
	defer cache.Close() //nolint:errcheck // test cleanup

	const crawler = "5c11752d8687df2332c08247c4fb655a"

	if id, found := cache.LastUsed(ctx, crawler); found {
		t.Errorf("LastUsed() = %q before Record, want miss", id)
	}

	cache.Record(ctx, crawler, "squid-1")

	id, found := cache.LastUsed(ctx, crawler)
	if !found {
		t.Fatal("LastUsed() miss after Record")
	}
	if id != "squid-1" {
		t.Errorf("LastUsed() = %q, want %q", id, "squid-1")
	}
}

func TestRecordOverwrites(t *testing.T) {
	ctx := context.Background()
	cache, err := NewWithPath(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("NewWithPath() error = %v", err)
	}
	defer cache.Close() //nolint:errcheck // test cleanup

	const crawler = "5c11752d8687df2332c08247c4fb655a"
	cache.Record(ctx, crawler, "squid-1")
	cache.Record(ctx, crawler, "squid-2")

	id, found := cache.LastUsed(ctx, crawler)
	if !found || id != "squid-2" {
		t.Errorf("LastUsed() = %q, %v, want %q, true", id, found, "squid-2")
	}
}

func TestLastUsed_CrawlersAreIndependent(t *testing.T) {
	ctx := context.Background()
	cache, err := NewWithPath(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("NewWithPath() error = %v", err)
	}
	defer cache.Close() //nolint:errcheck // test cleanup

	cache.Record(ctx, "crawler-a", "squid-a")

	if id, found := cache.LastUsed(ctx, "crawler-b"); found {
		t.Errorf("LastUsed(crawler-b) = %q, want miss", id)
	}
}
