package dsl

import (
	"testing"

	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/pkg/utils"
)

func sampleItem() *core.Item {
	it := core.NewItem(&core.Listing{
		ID:        7,
		City:      "Boston",
		Price:     450000,
		Bedrooms:  2,
		Bathrooms: 1,
		Size:      85,
		Type:      "apartment",
		Amenities: []string{"parking", "gym"},
	})
	it.Score = 0.8
	it.PutLabel("recall_source", utils.Label{Value: "store", Source: "recall"})
	return it
}

func TestEval_Evaluate(t *testing.T) {
	qctx := &core.QueryContext{Params: map[string]any{"budget": 500000.0}}
	e := NewEval(sampleItem(), qctx)

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"empty is true", "", true},
		{"price range", `listing.price >= 100000.0 && listing.price <= 500000.0`, true},
		{"city equality", `listing.city == "Boston"`, true},
		{"city mismatch", `listing.city == "Cambridge"`, false},
		{"amenity membership", `"parking" in listing.amenities`, true},
		{"amenity absent", `"pool" in listing.amenities`, false},
		{"score threshold", `item.score > 0.7`, true},
		{"label value", `label.recall_source == "store"`, true},
		{"label contains", `label.recall_source.contains("sto")`, true},
		{"params budget", `params.budget != null && listing.price <= params.budget`, true},
		{"logical combo", `listing.type == "apartment" && listing.bedrooms >= 2`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q) error = %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEval_Errors(t *testing.T) {
	e := NewEval(sampleItem(), nil)

	t.Run("compile error", func(t *testing.T) {
		if _, err := e.Evaluate(`listing.price >=`); err == nil {
			t.Error("Evaluate() error = nil, want compile error")
		}
	})

	t.Run("non-boolean result", func(t *testing.T) {
		if _, err := e.Evaluate(`listing.price`); err == nil {
			t.Error("Evaluate() error = nil, want boolean-type error")
		}
	})

	// CEL 访问不存在的 key 会报错，存在性检查应写 != null
	t.Run("missing label key errors", func(t *testing.T) {
		if _, err := e.Evaluate(`label.filtered == "x"`); err == nil {
			t.Error("Evaluate() error = nil, want missing-key error")
		}
	})
}

func TestEval_NilItem(t *testing.T) {
	e := NewEval(nil, nil)

	// item 为空时各顶层 map 为空，字段访问报缺 key 错误
	if _, err := e.Evaluate(`item.score > 0.0`); err == nil {
		t.Error("Evaluate() error = nil, want missing-key error")
	}

	got, err := e.Evaluate(`!("score" in item)`)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !got {
		t.Error("empty item map should have no score key")
	}
}
