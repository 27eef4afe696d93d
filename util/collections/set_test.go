package collections

import (
	"sort"
	"testing"
)

func TestSet(t *testing.T) {
	a := NewSet(1, 2, 3)
	b := NewSet(2, 3, 4)

	if !a.Contains(1) || a.Contains(4) {
		t.Fatal("Contains")
	}

	difference := a.Difference(b).Slice()
	if len(difference) != 1 || difference[0] != 1 {
		t.Errorf("Difference() = %v", difference)
	}

	intersection := a.Intersection(b).Slice()
	sort.Ints(intersection)
	if len(intersection) != 2 || intersection[0] != 2 || intersection[1] != 3 {
		t.Errorf("Intersection() = %v", intersection)
	}

	a.Remove(1)
	a.Remove(42)
	if len(a) != 2 {
		t.Errorf("%d elements after removing", len(a))
	}
}
