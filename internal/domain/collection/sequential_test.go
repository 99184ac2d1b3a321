package collection

import "testing"

func TestSequentialReduceEmptyIsNotOk(t *testing.T) {
	c := FromSlice([]int{})
	_, ok := c.Reduce(func(a, b int) int { return a + b })
	if ok {
		t.Fatal("Reduce over empty collection returned ok = true")
	}
}

func TestSequentialReduceFoldsLeftToRight(t *testing.T) {
	c := FromSlice([]string{"a", "b", "c"})
	result, ok := c.Reduce(func(acc, x string) string { return acc + x })
	if !ok || result != "abc" {
		t.Fatalf("Reduce = %q, %v; want \"abc\", true", result, ok)
	}
}

func TestSequentialLen(t *testing.T) {
	c := FromSlice([]int{1, 2, 3, 4})
	if c.Len() != 4 {
		t.Fatalf("Len() = %d; want 4", c.Len())
	}
}
