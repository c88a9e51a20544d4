package search

import (
	"math"
	"testing"

	"github.com/rushteam/estatekit/core"
)

func TestSimilarity(t *testing.T) {
	base := &core.Listing{ID: 1, City: "Boston", Type: "apartment", Price: 400000, Bedrooms: 2, Size: 90}

	tests := []struct {
		name  string
		other *core.Listing
		want  float64
	}{
		{
			// 0.3 + 0.2 + 0.2 + 0.2 + 0.1：五个分量权重之和
			name:  "identical listing scores 1.0",
			other: &core.Listing{ID: 2, City: "Boston", Type: "apartment", Price: 400000, Bedrooms: 2, Size: 90},
			want:  1.0,
		},
		{
			name:  "different city loses 0.3",
			other: &core.Listing{ID: 2, City: "Cambridge", Type: "apartment", Price: 400000, Bedrooms: 2, Size: 90},
			want:  0.7,
		},
		{
			name:  "bedroom off by one gets half bonus",
			other: &core.Listing{ID: 2, City: "Boston", Type: "apartment", Price: 400000, Bedrooms: 3, Size: 90},
			want:  0.9,
		},
		{
			name:  "bedroom off by two gets nothing",
			other: &core.Listing{ID: 2, City: "Boston", Type: "apartment", Price: 400000, Bedrooms: 4, Size: 90},
			want:  0.8,
		},
		{
			name:  "price ratio term",
			other: &core.Listing{ID: 2, City: "Boston", Type: "apartment", Price: 200000, Bedrooms: 2, Size: 90},
			want:  0.3 + 0.2 + 0.2 + 0.2*0.5 + 0.1,
		},
		{
			name:  "size ratio term",
			other: &core.Listing{ID: 2, City: "Boston", Type: "apartment", Price: 400000, Bedrooms: 2, Size: 45},
			want:  0.3 + 0.2 + 0.2 + 0.2 + 0.1*0.5,
		},
		{
			name:  "nothing in common",
			other: &core.Listing{ID: 2, City: "Berlin", Type: "loft", Price: 400000, Bedrooms: 5, Size: 90},
			want:  0.2 + 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(base, tt.other)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Similarity() = %v, want %v", got, tt.want)
			}
			// 对称性
			if rev := Similarity(tt.other, base); math.Abs(rev-got) > 1e-9 {
				t.Errorf("Similarity not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestSimilarity_ZeroPriceOrSize(t *testing.T) {
	a := &core.Listing{City: "Boston", Type: "apartment", Price: 0, Bedrooms: 2, Size: 0}
	b := &core.Listing{City: "Boston", Type: "apartment", Price: 400000, Bedrooms: 2, Size: 90}

	// 比值项按 0 计，不产生 NaN
	got := Similarity(a, b)
	if math.IsNaN(got) {
		t.Fatal("Similarity() = NaN")
	}
	if math.Abs(got-0.7) > 1e-9 {
		t.Errorf("Similarity() = %v, want 0.7", got)
	}
}

func TestSimilarity_Nil(t *testing.T) {
	if got := Similarity(nil, &core.Listing{}); got != 0 {
		t.Errorf("Similarity(nil, x) = %v, want 0", got)
	}
}
