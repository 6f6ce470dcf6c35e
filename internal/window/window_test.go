package window

import (
	"sync"
	"testing"
)

func TestEmptyWindowAverageIsZero(t *testing.T) {
	w := New(DefaultCapacity)
	if got := w.Average(); got != 0 {
		t.Fatalf("expected 0 for empty window, got %v", got)
	}
	if w.Len() != 0 {
		t.Fatalf("expected empty window, got len %d", w.Len())
	}
}

func TestAverageOfTwo(t *testing.T) {
	w := New(DefaultCapacity)
	w.Push(10.0)
	w.Push(20.0)
	if got := w.Average(); got != 15.0 {
		t.Fatalf("expected 15.0, got %v", got)
	}
}

func TestAverageIsRounded(t *testing.T) {
	w := New(DefaultCapacity)
	w.Push(1)
	w.Push(1)
	w.Push(2)
	// 4/3 = 1.3333...
	if got := w.Average(); got != 1.33 {
		t.Fatalf("expected 1.33, got %v", got)
	}
}

func TestEvictsOldestAfterCapacity(t *testing.T) {
	w := New(DefaultCapacity)
	for i := 1; i <= 11; i++ {
		w.Push(float64(i))
	}
	if w.Len() != DefaultCapacity {
		t.Fatalf("expected len %d, got %d", DefaultCapacity, w.Len())
	}
	vals := w.Values()
	for i, v := range vals {
		if want := float64(i + 2); v != want {
			t.Fatalf("position %d: expected %v, got %v (all=%v)", i, want, v, vals)
		}
	}
}

func TestNeverExceedsCapacity(t *testing.T) {
	w := New(3)
	for i := 0; i < 50; i++ {
		w.Push(float64(i))
		if w.Len() > 3 {
			t.Fatalf("len exceeded capacity after %d pushes: %d", i+1, w.Len())
		}
	}
	vals := w.Values()
	if len(vals) != 3 || vals[0] != 47 || vals[1] != 48 || vals[2] != 49 {
		t.Fatalf("unexpected values %v", vals)
	}
}

func TestIdenticalValuesAverage(t *testing.T) {
	for _, n := range []int{1, 5, 10, 11, 25} {
		w := New(DefaultCapacity)
		var avg float64
		for i := 0; i < n; i++ {
			avg = w.PushAverage(42.5)
		}
		if avg != 42.5 {
			t.Fatalf("after %d identical pushes expected 42.5, got %v", n, avg)
		}
	}
}

func TestPushAverageIncludesNewSample(t *testing.T) {
	w := New(DefaultCapacity)
	if got := w.PushAverage(50.0); got != 50.0 {
		t.Fatalf("expected first average 50.0, got %v", got)
	}
	if got := w.PushAverage(70.0); got != 60.0 {
		t.Fatalf("expected second average 60.0, got %v", got)
	}
}

func TestNonPositiveCapacityFallsBack(t *testing.T) {
	if c := New(0).Cap(); c != DefaultCapacity {
		t.Fatalf("expected default capacity, got %d", c)
	}
	if c := New(-4).Cap(); c != DefaultCapacity {
		t.Fatalf("expected default capacity, got %d", c)
	}
}

func TestConcurrentPushes(t *testing.T) {
	w := New(DefaultCapacity)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				w.PushAverage(30)
			}
		}()
	}
	wg.Wait()
	if w.Len() != DefaultCapacity {
		t.Fatalf("expected full window, got len %d", w.Len())
	}
	if got := w.Average(); got != 30 {
		t.Fatalf("expected average 30, got %v", got)
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		12.344:  12.34,
		12.346:  12.35,
		0:       0,
		99.999:  100,
		33.3333: 33.33,
	}
	for in, want := range cases {
		if got := Round2(in); got != want {
			t.Fatalf("Round2(%v) = %v, want %v", in, got, want)
		}
	}
}
