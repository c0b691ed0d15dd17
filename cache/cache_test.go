package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	c, err := New("redis://"+s.Addr(), "regintel", 5*time.Minute)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	return c, s
}

func TestSetAndGetJSON(t *testing.T) {
	c, s := setupTestCache(t)
	defer c.Close()
	defer s.Close()

	ctx := context.Background()
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := c.SetJSON(ctx, "dashboard", "summary", payload{Name: "x", Count: 3}); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	var got payload
	found, err := c.GetJSON(ctx, "dashboard", "summary", &got)
	if err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if !found {
		t.Fatal("expected a cache hit")
	}
	if got.Name != "x" || got.Count != 3 {
		t.Errorf("got %+v, want {x 3}", got)
	}
}

func TestGetJSONMiss(t *testing.T) {
	c, s := setupTestCache(t)
	defer c.Close()
	defer s.Close()

	var out map[string]any
	found, err := c.GetJSON(context.Background(), "dashboard", "absent", &out)
	if err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if found {
		t.Error("expected a cache miss")
	}
}

func TestKeysAreNamespaced(t *testing.T) {
	c, s := setupTestCache(t)
	defer c.Close()
	defer s.Close()

	if err := c.SetJSON(context.Background(), "assistant", "k1", "v"); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}
	if !s.Exists("regintel:assistant:k1") {
		t.Error("expected key regintel:assistant:k1")
	}
}

func TestEntriesExpire(t *testing.T) {
	c, s := setupTestCache(t)
	defer c.Close()
	defer s.Close()

	ctx := context.Background()
	if err := c.SetJSONTTL(ctx, "analysis", "k", "v", time.Second); err != nil {
		t.Fatalf("SetJSONTTL failed: %v", err)
	}

	s.FastForward(2 * time.Second)

	var out string
	found, err := c.GetJSON(ctx, "analysis", "k", &out)
	if err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if found {
		t.Error("entry should have expired")
	}
}

func TestIncrementWithTTL(t *testing.T) {
	c, s := setupTestCache(t)
	defer c.Close()
	defer s.Close()

	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		got, err := c.IncrementWithTTL(ctx, "ratelimit", "client", time.Minute)
		if err != nil {
			t.Fatalf("IncrementWithTTL failed: %v", err)
		}
		if got != want {
			t.Errorf("count = %d, want %d", got, want)
		}
	}

	s.FastForward(2 * time.Minute)
	got, err := c.IncrementWithTTL(ctx, "ratelimit", "client", time.Minute)
	if err != nil {
		t.Fatalf("IncrementWithTTL failed: %v", err)
	}
	if got != 1 {
		t.Errorf("count after expiry = %d, want 1", got)
	}
}
