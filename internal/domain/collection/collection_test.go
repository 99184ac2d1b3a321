package collection

import "testing"

func TestMapMaterializesEveryElement(t *testing.T) {
	c := FromSlice([]int{1, 2, 3})
	mapped := Map(c, func(x int) int { return x * x })

	var got []int
	mapped.ForEach(func(x int) { got = append(got, x) })

	if len(got) != 3 {
		t.Fatalf("len(got) = %d; want 3", len(got))
	}
	for i, v := range []int{1, 4, 9} {
		if got[i] != v {
			t.Fatalf("got[%d] = %d; want %d", i, got[i], v)
		}
	}
}

func TestCrossZipsSameSingleton(t *testing.T) {
	c := FromSlice([]string{"a", "b"})
	crossed := Cross(c, 99)

	var pairs []Pair[string, int]
	crossed.ForEach(func(p Pair[string, int]) { pairs = append(pairs, p) })

	if len(pairs) != 2 {
		t.Fatalf("len(pairs) = %d; want 2", len(pairs))
	}
	for _, p := range pairs {
		if p.Right != 99 {
			t.Fatalf("p.Right = %d; want 99", p.Right)
		}
	}
}

func TestPureIsOneElement(t *testing.T) {
	c := Pure(5)
	if c.Len() != 1 {
		t.Fatalf("Len() = %d; want 1", c.Len())
	}
	result, ok := c.Reduce(func(a, b int) int { return a + b })
	if !ok || result != 5 {
		t.Fatalf("Reduce = %d, %v; want 5, true", result, ok)
	}
}
