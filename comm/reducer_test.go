package comm

import (
	"math"
	"sync"
	"testing"
)

func TestSelfReductions(t *testing.T) {
	r := NewReducer(NewSelf())

	sum, err := r.Sum(0.5)
	if err != nil {
		t.Fatalf("Sum() error = %v", err)
	}
	if sum != 0.5 {
		t.Errorf("Sum() = %v, want 0.5", sum)
	}

	norm, err := r.Norm(-2.0)
	if err != nil {
		t.Fatalf("Norm() error = %v", err)
	}
	if norm != 2.0 {
		t.Errorf("Norm() = %v, want 2.0", norm)
	}

	gathered, err := r.Gather(0.5)
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(gathered) != 1 || gathered[0] != 0.5 {
		t.Errorf("Gather() = %v, want [0.5]", gathered)
	}
}

// runRanks drives one goroutine per rank and collects per-rank results.
func runRanks(t *testing.T, ranks []*LocalRank, fn func(rank *LocalRank) (float64, error)) []float64 {
	t.Helper()

	results := make([]float64, len(ranks))
	errs := make([]error, len(ranks))
	var wg sync.WaitGroup
	for i, rank := range ranks {
		wg.Add(1)
		go func(i int, rank *LocalRank) {
			defer wg.Done()
			results[i], errs[i] = fn(rank)
		}(i, rank)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("rank %d: %v", i, err)
		}
	}
	return results
}

func TestLocalGroupSum(t *testing.T) {
	ranks := NewLocalGroup(2)

	// Each rank contributes rank+0.5; the sum 0.5+1.5 = 2.0 must be
	// identical on every rank.
	results := runRanks(t, ranks, func(rank *LocalRank) (float64, error) {
		return NewReducer(rank).Sum(float64(rank.Rank()) + 0.5)
	})

	for i, got := range results {
		if got != 2.0 {
			t.Errorf("rank %d Sum() = %v, want 2.0", i, got)
		}
	}
}

func TestLocalGroupNorm(t *testing.T) {
	ranks := NewLocalGroup(2)

	want := math.Sqrt(0.25 + 2.25) // sqrt(2.5)
	results := runRanks(t, ranks, func(rank *LocalRank) (float64, error) {
		return NewReducer(rank).Norm(float64(rank.Rank()) + 0.5)
	})

	for i, got := range results {
		if math.Abs(got-want) > 1e-15 {
			t.Errorf("rank %d Norm() = %v, want %v", i, got, want)
		}
	}
}

func TestLocalGroupGatherRootOnly(t *testing.T) {
	ranks := NewLocalGroup(3)

	gathered := make([][]float64, 3)
	var wg sync.WaitGroup
	for i, rank := range ranks {
		wg.Add(1)
		go func(i int, rank *LocalRank) {
			defer wg.Done()
			g, err := NewReducer(rank).Gather(float64(rank.Rank()) + 0.5)
			if err != nil {
				t.Errorf("rank %d: %v", i, err)
			}
			gathered[i] = g
		}(i, rank)
	}
	wg.Wait()

	want := []float64{0.5, 1.5, 2.5}
	if len(gathered[0]) != len(want) {
		t.Fatalf("rank 0 Gather() = %v, want %v", gathered[0], want)
	}
	for i := range want {
		if gathered[0][i] != want[i] {
			t.Errorf("rank 0 Gather()[%d] = %v, want %v", i, gathered[0][i], want[i])
		}
	}
	for r := 1; r < 3; r++ {
		if gathered[r] != nil {
			t.Errorf("rank %d Gather() = %v, want nil", r, gathered[r])
		}
	}
}

func TestLocalGroupRepeatedRounds(t *testing.T) {
	ranks := NewLocalGroup(4)

	// Several back-to-back collectives must not bleed rounds into each
	// other even when ranks race ahead.
	for round := 0; round < 25; round++ {
		base := float64(round)
		results := runRanks(t, ranks, func(rank *LocalRank) (float64, error) {
			return NewReducer(rank).Sum(base + float64(rank.Rank()))
		})
		want := 4*base + 6 // 0+1+2+3
		for i, got := range results {
			if got != want {
				t.Fatalf("round %d rank %d Sum() = %v, want %v", round, i, got, want)
			}
		}
	}
}
