package store

import "testing"

func TestRowString(t *testing.T) {
	row := []any{"uid-1", float64(3)}
	if got := RowString(row, 0); got != "uid-1" {
		t.Errorf("RowString(0) = %q", got)
	}
	if got := RowString(row, 1); got != "" {
		t.Errorf("RowString on number = %q, want empty", got)
	}
	if got := RowString(row, 5); got != "" {
		t.Errorf("RowString out of range = %q, want empty", got)
	}
}

func TestRowInt64(t *testing.T) {
	row := []any{float64(42), int64(7), 3, "nope"}
	cases := []struct {
		i    int
		want int64
	}{
		{0, 42}, // JSON numbers decode as float64
		{1, 7},
		{2, 3},
		{3, 0},
		{9, 0},
	}
	for _, tc := range cases {
		if got := RowInt64(row, tc.i); got != tc.want {
			t.Errorf("RowInt64(%d) = %d, want %d", tc.i, got, tc.want)
		}
	}
}
