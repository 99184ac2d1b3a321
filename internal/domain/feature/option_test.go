package feature

import "testing"

func TestOptionGet(t *testing.T) {
	some := Some(42)
	if v, ok := some.Get(); !ok || v != 42 {
		t.Fatalf("Get() = %v, %v; want 42, true", v, ok)
	}
	none := None[int]()
	if _, ok := none.Get(); ok {
		t.Fatal("None().Get() ok = true; want false")
	}
}

func TestOptionOrElse(t *testing.T) {
	fallback := Some(7)
	if got, _ := None[int]().OrElse(fallback).Get(); got != 7 {
		t.Fatalf("None().OrElse(Some(7)) = %v; want 7", got)
	}
	if got, _ := Some(1).OrElse(fallback).Get(); got != 1 {
		t.Fatalf("Some(1).OrElse(Some(7)) = %v; want 1", got)
	}
}

func TestMapOption(t *testing.T) {
	doubled := MapOption(Some(3), func(x int) int { return x * 2 })
	if v, ok := doubled.Get(); !ok || v != 6 {
		t.Fatalf("MapOption(Some(3), double) = %v, %v; want 6, true", v, ok)
	}
	if got := MapOption(None[int](), func(x int) int { return x * 2 }); got.IsSome() {
		t.Fatal("MapOption(None, f).IsSome() = true; want false")
	}
}

func sum(a, b int) int { return a + b }

func TestCombineOptionMonoidLaws(t *testing.T) {
	combine := CombineOption(sum)

	if got := combine(None[int](), None[int]()); got.IsSome() {
		t.Fatal("None ⊕ None should be None")
	}
	if v, _ := combine(Some(5), None[int]()).Get(); v != 5 {
		t.Fatalf("Some(5) ⊕ None = %v; want 5", v)
	}
	if v, _ := combine(None[int](), Some(5)).Get(); v != 5 {
		t.Fatalf("None ⊕ Some(5) = %v; want 5", v)
	}
	if v, _ := combine(Some(2), Some(3)).Get(); v != 5 {
		t.Fatalf("Some(2) ⊕ Some(3) = %v; want 5", v)
	}
}

func TestCombineOptionAssociative(t *testing.T) {
	combine := CombineOption(sum)
	a, b, c := Some(1), Some(2), Some(3)

	left := combine(combine(a, b), c)
	right := combine(a, combine(b, c))

	lv, _ := left.Get()
	rv, _ := right.Get()
	if lv != rv {
		t.Fatalf("combine not associative: (a⊕b)⊕c = %v, a⊕(b⊕c) = %v", lv, rv)
	}
}
