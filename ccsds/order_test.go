package ccsds

import (
	"errors"
	"testing"
)

func TestTraverse_Orders(t *testing.T) {
	type coord struct{ z, y, x int }

	for _, tc := range []struct {
		name  string
		order Interleaving
		depth int
		want  []coord
	}{
		{name: "bsq", order: BSQ, want: []coord{
			{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1},
			{1, 0, 0}, {1, 0, 1}, {1, 1, 0}, {1, 1, 1},
			{2, 0, 0}, {2, 0, 1}, {2, 1, 0}, {2, 1, 1},
		}},
		{name: "bil", order: BI, depth: 1, want: []coord{
			{0, 0, 0}, {0, 0, 1}, {1, 0, 0}, {1, 0, 1}, {2, 0, 0}, {2, 0, 1},
			{0, 1, 0}, {0, 1, 1}, {1, 1, 0}, {1, 1, 1}, {2, 1, 0}, {2, 1, 1},
		}},
		{name: "bip", order: BI, depth: 3, want: []coord{
			{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {0, 0, 1}, {1, 0, 1}, {2, 0, 1},
			{0, 1, 0}, {1, 1, 0}, {2, 1, 0}, {0, 1, 1}, {1, 1, 1}, {2, 1, 1},
		}},
		{name: "bi_depth2", order: BI, depth: 2, want: []coord{
			{0, 0, 0}, {1, 0, 0}, {0, 0, 1}, {1, 0, 1}, {2, 0, 0}, {2, 0, 1},
			{0, 1, 0}, {1, 1, 0}, {0, 1, 1}, {1, 1, 1}, {2, 1, 0}, {2, 1, 1},
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var got []coord
			err := traverse(2, 2, 3, tc.order, tc.depth, func(z int, y int, x int) error {
				got = append(got, coord{z, y, x})
				return nil
			})
			if err != nil {
				t.Fatalf("traverse: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d coordinates, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("step %d: got %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestTraverse_StopsOnError(t *testing.T) {
	stop := errors.New("stop")
	n := 0
	err := traverse(4, 4, 4, BI, 2, func(z int, y int, x int) error {
		n++
		if n == 5 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("got %v, want %v", err, stop)
	}
	if n != 5 {
		t.Fatalf("callback ran %d times, want 5", n)
	}
}
