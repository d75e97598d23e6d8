package estimation

import (
	"math/rand"
	"testing"

	"github.com/QuickEst-app/QuickEst/internal/domain"
)

func TestWeightedCountIncrements(t *testing.T) {
	agg := NewWeightedCount(domain.WeightTriple{Simple: 1, Average: 2, Complex: 3})

	agg.Add(domain.Simple)
	agg.Add(domain.Average)
	agg.Add(domain.Average)
	if agg.Total() != 5.0 {
		t.Fatalf("total = %v, want 5.0", agg.Total())
	}

	agg.Add(domain.Simple)
	if agg.Total() != 6.0 {
		t.Fatalf("total after add = %v, want 6.0", agg.Total())
	}

	agg.Move(domain.Simple, domain.Complex)
	if agg.Total() != 8.0 {
		t.Fatalf("total after move = %v, want 8.0", agg.Total())
	}

	agg.Remove(domain.Complex)
	if agg.Total() != 5.0 {
		t.Fatalf("total after remove = %v, want 5.0", agg.Total())
	}

	agg.SetWeights(domain.WeightTriple{Simple: 1.5, Average: 2.5, Complex: 3.5})
	if agg.Total() != 6.5 {
		t.Fatalf("total after reweight = %v, want 6.5", agg.Total())
	}
}

func TestWeightedCountRemoveNeverUnderflows(t *testing.T) {
	agg := NewWeightedCount(domain.WeightTriple{Simple: 1, Average: 2, Complex: 3})
	agg.Remove(domain.Simple)
	if agg.Count(domain.Simple) != 0 || agg.Total() != 0 {
		t.Fatalf("unexpected state after removing from empty aggregate")
	}
}

func TestIncrementalMatchesReplay(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	weights := domain.WeightTriple{Simple: 5, Average: 10, Complex: 15}
	bands := domain.Complexities()

	incremental := NewWeightedCount(weights)
	useCases := make([]domain.UseCase, 0)

	for i := 0; i < 500; i++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(useCases) == 0:
			c := bands[rng.Intn(3)]
			useCases = append(useCases, domain.UseCase{Complexity: c})
			incremental.Add(c)
		case op == 1:
			idx := rng.Intn(len(useCases))
			incremental.Remove(useCases[idx].Complexity)
			useCases = append(useCases[:idx], useCases[idx+1:]...)
		default:
			idx := rng.Intn(len(useCases))
			next := bands[rng.Intn(3)]
			incremental.Move(useCases[idx].Complexity, next)
			useCases[idx].Complexity = next
		}
	}

	replayed := ReplayUseCases(useCases, weights)
	if incremental.Total() != replayed.Total() {
		t.Fatalf("incremental total %v diverged from replay %v", incremental.Total(), replayed.Total())
	}
	for _, c := range bands {
		if incremental.Count(c) != replayed.Count(c) {
			t.Fatalf("count mismatch for %s: %d vs %d", c, incremental.Count(c), replayed.Count(c))
		}
	}
}

func TestFactorAggregate(t *testing.T) {
	agg := NewFactorAggregate()
	agg.Set("T01", 2.0, 3)
	agg.Set("T02", 1.0, 5)
	if agg.Total() != 11.0 {
		t.Fatalf("total = %v, want 11.0", agg.Total())
	}

	agg.Set("T01", 2.0, 1)
	if agg.Total() != 7.0 {
		t.Fatalf("total after reset = %v, want 7.0", agg.Total())
	}
	if agg.Result("T01") != 2.0 {
		t.Fatalf("T01 result = %v, want 2.0", agg.Result("T01"))
	}

	counts := agg.CategoryCounts()
	if counts[domain.Irrelevant] != 1 || counts[domain.Essential] != 1 || counts[domain.Medium] != 0 {
		t.Fatalf("unexpected category counts: %+v", counts)
	}
}

func TestFactorAggregateMatchesReplay(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	factors := domain.DefaultEnvironmentalFactors(1)

	incremental := NewFactorAggregate()
	for i := range factors {
		factors[i].Influence = rng.Intn(6)
		incremental.Set(factors[i].Factor, factors[i].Weight, factors[i].Influence)
	}
	for i := 0; i < 100; i++ {
		idx := rng.Intn(len(factors))
		factors[idx].Influence = rng.Intn(6)
		incremental.Set(factors[idx].Factor, factors[idx].Weight, factors[idx].Influence)
	}

	replayed := ReplayFactors(factors)
	if incremental.Total() != replayed.Total() {
		t.Fatalf("incremental total %v diverged from replay %v", incremental.Total(), replayed.Total())
	}
}

func TestCategorizeInfluence(t *testing.T) {
	cases := map[int]domain.InfluenceCategory{
		0: domain.Irrelevant,
		2: domain.Irrelevant,
		3: domain.Medium,
		4: domain.Medium,
		5: domain.Essential,
	}
	for influence, want := range cases {
		if got := domain.CategorizeInfluence(influence); got != want {
			t.Fatalf("CategorizeInfluence(%d) = %v, want %v", influence, got, want)
		}
	}
}
