package conv

import "testing"

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{"float64", 3.14, 3.14, true},
		{"float32", float32(2.5), 2.5, true},
		{"int", 7, 7, true},
		{"int64", int64(-3), -3, true},
		{"bool true", true, 1, true},
		{"bool false", false, 0, true},
		{"string rejected", "3.14", 0, false},
		{"nil rejected", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ToFloat64(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMapToString(t *testing.T) {
	in := map[string]any{
		"city":      "Boston",
		"min_price": "400000",
		"limit":     10, // 非 string 被丢弃
	}
	got := MapToString(in)
	if len(got) != 2 || got["city"] != "Boston" || got["min_price"] != "400000" {
		t.Errorf("MapToString() = %v", got)
	}
	if MapToString(nil) != nil {
		t.Error("MapToString(nil) should stay nil")
	}
}

func TestSliceAnyToString(t *testing.T) {
	got := SliceAnyToString([]any{"parking", 42, 3.0, true, []any{}})
	// 数字格式化为整数字符串，bool 视为 1，嵌套 slice 丢弃
	want := []string{"parking", "42", "3", "1"}
	if len(got) != len(want) {
		t.Fatalf("SliceAnyToString() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if SliceAnyToString("not a slice") != nil {
		t.Error("non-slice input should yield nil")
	}
}

func TestSliceAnyToInt64(t *testing.T) {
	got := SliceAnyToInt64([]any{1, int64(2), 3.9, "four"})
	want := []int64{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("SliceAnyToInt64() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestConfigGetters(t *testing.T) {
	m := map[string]any{
		"n":         5,          // YAML 解析常见的 int
		"budget":    450000.0,   // float64
		"tolerance": 1,          // int 提升为 float64
		"name":      "budget_picks",
	}

	if got := ConfigGet(m, "name", "fallback"); got != "budget_picks" {
		t.Errorf("ConfigGet(name) = %q", got)
	}
	if got := ConfigGet(m, "missing", "fallback"); got != "fallback" {
		t.Errorf("ConfigGet(missing) = %q, want fallback", got)
	}
	if got := ConfigGetInt64(m, "n", 0); got != 5 {
		t.Errorf("ConfigGetInt64(n) = %d, want 5", got)
	}
	if got := ConfigGetInt64(m, "budget", 0); got != 450000 {
		t.Errorf("ConfigGetInt64(budget) = %d, want 450000", got)
	}
	if got := ConfigGetFloat64(m, "tolerance", 0.1); got != 1.0 {
		t.Errorf("ConfigGetFloat64(tolerance) = %v, want 1", got)
	}
	if got := ConfigGetFloat64(nil, "budget", 0.25); got != 0.25 {
		t.Errorf("ConfigGetFloat64(nil map) = %v, want default", got)
	}
}
