package store

import (
	"context"
	"testing"

	"github.com/rushteam/estatekit/core"
)

func listing(id int64, city string) *core.Listing {
	return &core.Listing{ID: id, City: city, Price: float64(id) * 1000,
		Bedrooms: 2, Size: 80, Amenities: []string{"parking"}}
}

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if err := s.Add(ctx, listing(1, "Boston")); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(ctx, listing(2, "Cambridge")); err != nil {
		t.Fatal(err)
	}

	t.Run("get", func(t *testing.T) {
		got, err := s.Get(ctx, 1)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.City != "Boston" {
			t.Errorf("City = %q, want Boston", got.City)
		}
	})

	t.Run("get missing is not found", func(t *testing.T) {
		if _, err := s.Get(ctx, 42); !core.IsListingNotFound(err) {
			t.Errorf("Get() error = %v, want ErrListingNotFound", err)
		}
	})

	t.Run("count", func(t *testing.T) {
		n, err := s.Count(ctx)
		if err != nil || n != 2 {
			t.Errorf("Count() = (%d, %v), want (2, nil)", n, err)
		}
	})

	t.Run("upsert keeps position", func(t *testing.T) {
		updated := listing(1, "Somerville")
		if err := s.Add(ctx, updated); err != nil {
			t.Fatal(err)
		}
		all, _ := s.All(ctx)
		if all[0].ID != 1 || all[0].City != "Somerville" {
			t.Errorf("all[0] = %+v, want updated listing 1 first", all[0])
		}
		if n, _ := s.Count(ctx); n != 2 {
			t.Errorf("Count() = %d, want 2 after upsert", n)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if err := s.Remove(ctx, 1); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Get(ctx, 1); !core.IsListingNotFound(err) {
			t.Error("removed listing still present")
		}
		if err := s.Remove(ctx, 1); !core.IsListingNotFound(err) {
			t.Errorf("Remove(missing) error = %v, want ErrListingNotFound", err)
		}
	})
}

func TestMemoryStore_AllInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, id := range []int64{5, 3, 9, 1} {
		if err := s.Add(ctx, listing(id, "Boston")); err != nil {
			t.Fatal(err)
		}
	}
	all, err := s.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{5, 3, 9, 1}
	for i, l := range all {
		if l.ID != want[i] {
			t.Errorf("all[%d].ID = %d, want %d", i, l.ID, want[i])
		}
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Add(ctx, listing(1, "Boston")); err != nil {
		t.Fatal(err)
	}

	got, _ := s.Get(ctx, 1)
	got.City = "Mutated"
	got.Amenities[0] = "mutated"

	again, _ := s.Get(ctx, 1)
	if again.City != "Boston" || again.Amenities[0] != "parking" {
		t.Errorf("store leaked internal state: %+v", again)
	}
}

func TestMemoryStore_RemoveReindexes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for id := int64(1); id <= 4; id++ {
		if err := s.Add(ctx, listing(id, "Boston")); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Remove(ctx, 2); err != nil {
		t.Fatal(err)
	}
	// 删除中间元素后，其余 ID 仍可按下标索引命中
	for _, id := range []int64{1, 3, 4} {
		if got, err := s.Get(ctx, id); err != nil || got.ID != id {
			t.Errorf("Get(%d) = (%v, %v)", id, got, err)
		}
	}
}
