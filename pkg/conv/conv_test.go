package conv

import "testing"

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{name: "float64", in: 0.6, want: 0.6, wantOK: true},
		{name: "float32", in: float32(1.5), want: 1.5, wantOK: true},
		{name: "int", in: 3, want: 3, wantOK: true},
		{name: "int64", in: int64(7), want: 7, wantOK: true},
		{name: "int32", in: int32(2), want: 2, wantOK: true},
		{name: "string rejected", in: "0.6", wantOK: false},
		{name: "nil rejected", in: nil, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("ToFloat64(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestConfigGet(t *testing.T) {
	m := map[string]any{"metric": "pearson", "topn": 5}

	if got := ConfigGet[string](m, "metric", ""); got != "pearson" {
		t.Fatalf("ConfigGet(metric) = %q", got)
	}
	if got := ConfigGet[string](m, "missing", "cosine"); got != "cosine" {
		t.Fatalf("missing key should yield default, got %q", got)
	}
	if got := ConfigGet[string](m, "topn", "fallback"); got != "fallback" {
		t.Fatalf("type mismatch should yield default, got %q", got)
	}
	if got := ConfigGet[string](nil, "metric", "d"); got != "d" {
		t.Fatalf("nil map should yield default, got %q", got)
	}
}

func TestConfigGetInt64(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]any
		want int64
	}{
		{name: "int", m: map[string]any{"n": 5}, want: 5},
		{name: "int64", m: map[string]any{"n": int64(6)}, want: 6},
		{name: "float64", m: map[string]any{"n": 7.0}, want: 7},
		{name: "missing key", m: map[string]any{}, want: -1},
		{name: "wrong type", m: map[string]any{"n": "5"}, want: -1},
		{name: "nil map", m: nil, want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConfigGetInt64(tt.m, "n", -1); got != tt.want {
				t.Fatalf("ConfigGetInt64 = %d, want %d", got, tt.want)
			}
		})
	}
}
