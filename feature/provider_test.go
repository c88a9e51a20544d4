package feature

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/store"
)

func TestMapProvider(t *testing.T) {
	ctx := context.Background()
	p := NewMapProvider(map[int64]map[string]float64{
		1: {"views": 120, "days_on_market": 14},
		2: {"views": 30},
	})

	t.Run("get", func(t *testing.T) {
		got, err := p.GetListingFeatures(ctx, 1)
		if err != nil {
			t.Fatalf("GetListingFeatures() error = %v", err)
		}
		if got["views"] != 120 || got["days_on_market"] != 14 {
			t.Errorf("features = %v", got)
		}
	})

	t.Run("missing is not found", func(t *testing.T) {
		if _, err := p.GetListingFeatures(ctx, 99); !core.IsNotFound(err) {
			t.Errorf("error = %v, want ErrFeatureNotFound", err)
		}
	})

	t.Run("returned map is a copy", func(t *testing.T) {
		got, _ := p.GetListingFeatures(ctx, 1)
		got["views"] = -1
		again, _ := p.GetListingFeatures(ctx, 1)
		if again["views"] != 120 {
			t.Error("provider leaked internal map")
		}
	})

	t.Run("batch skips missing", func(t *testing.T) {
		got, err := p.BatchGetListingFeatures(ctx, []int64{1, 99, 2})
		if err != nil {
			t.Fatalf("BatchGetListingFeatures() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len = %d, want 2 (missing skipped)", len(got))
		}
	})
}

func TestStoreProvider(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	l := &core.Listing{ID: 1, City: "Boston", Price: 450000, Bedrooms: 2,
		Bathrooms: 1, Size: 85, Type: "apartment", Amenities: []string{"parking"}}
	if err := s.Add(ctx, l); err != nil {
		t.Fatal(err)
	}

	p := NewStoreProvider(s, nil)

	got, err := p.GetListingFeatures(ctx, 1)
	if err != nil {
		t.Fatalf("GetListingFeatures() error = %v", err)
	}
	if got["size"] != 85 || got["bedrooms"] != 2 || got["amenity_count"] != 1 {
		t.Errorf("features = %v", got)
	}

	if _, err := p.GetListingFeatures(ctx, 99); !core.IsNotFound(err) {
		t.Errorf("error = %v, want not found", err)
	}

	t.Run("nil store unavailable", func(t *testing.T) {
		bad := &StoreProvider{Extractor: NewExtractor()}
		if _, err := bad.GetListingFeatures(ctx, 1); !core.IsUnavailable(err) {
			t.Errorf("error = %v, want unavailable", err)
		}
	})
}

// countingProvider 统计对下游的访问次数。
type countingProvider struct {
	*MapProvider
	calls int
}

func (p *countingProvider) GetListingFeatures(ctx context.Context, id int64) (map[string]float64, error) {
	p.calls++
	return p.MapProvider.GetListingFeatures(ctx, id)
}

func TestCachedProvider(t *testing.T) {
	ctx := context.Background()
	inner := &countingProvider{MapProvider: NewMapProvider(map[int64]map[string]float64{
		1: {"views": 120},
	})}
	c := NewCachedProvider(inner, 16, time.Minute)

	for i := 0; i < 3; i++ {
		got, err := c.GetListingFeatures(ctx, 1)
		if err != nil || got["views"] != 120 {
			t.Fatalf("GetListingFeatures() = (%v, %v)", got, err)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1 (cache hit on repeats)", inner.calls)
	}

	t.Run("miss is not cached", func(t *testing.T) {
		if _, err := c.GetListingFeatures(ctx, 99); !core.IsNotFound(err) {
			t.Errorf("error = %v, want not found", err)
		}
	})

	t.Run("eviction keeps size bound", func(t *testing.T) {
		small := NewCachedProvider(NewMapProvider(map[int64]map[string]float64{
			1: {"a": 1}, 2: {"a": 2}, 3: {"a": 3},
		}), 2, time.Minute)
		for _, id := range []int64{1, 2, 3} {
			if _, err := small.GetListingFeatures(ctx, id); err != nil {
				t.Fatal(err)
			}
		}
		small.mu.RLock()
		n := len(small.entries)
		small.mu.RUnlock()
		if n > 2 {
			t.Errorf("cache size = %d, want <= 2", n)
		}
	})
}
