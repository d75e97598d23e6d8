package estimation

import "github.com/QuickEst-app/QuickEst/internal/domain"

// WeightedCount aggregates a weighted sum over per-complexity counts. It backs
// both the UAW (actors) and UUCW (use cases) figures and is maintained
// incrementally as rows change.
type WeightedCount struct {
	counts  map[domain.Complexity]int
	weights domain.WeightTriple
}

func NewWeightedCount(weights domain.WeightTriple) *WeightedCount {
	return &WeightedCount{
		counts:  map[domain.Complexity]int{domain.Simple: 0, domain.Average: 0, domain.Complex: 0},
		weights: weights,
	}
}

func (w *WeightedCount) Add(c domain.Complexity) {
	w.counts[c]++
}

func (w *WeightedCount) Remove(c domain.Complexity) {
	if w.counts[c] > 0 {
		w.counts[c]--
	}
}

func (w *WeightedCount) Move(from, to domain.Complexity) {
	if from == to {
		return
	}
	w.Remove(from)
	w.Add(to)
}

func (w *WeightedCount) SetWeights(weights domain.WeightTriple) {
	w.weights = weights
}

func (w *WeightedCount) Weights() domain.WeightTriple {
	return w.weights
}

func (w *WeightedCount) Count(c domain.Complexity) int {
	return w.counts[c]
}

func (w *WeightedCount) TotalCount() int {
	return w.counts[domain.Simple] + w.counts[domain.Average] + w.counts[domain.Complex]
}

// Total is the weighted sum over all bands, rounded to four decimals.
func (w *WeightedCount) Total() float64 {
	total := 0.0
	for _, c := range domain.Complexities() {
		total += float64(w.counts[c]) * w.weights.For(c)
	}
	return Round4(total)
}

// ReplayActors rebuilds the UAW aggregate from scratch.
func ReplayActors(actors []domain.Actor, weights domain.WeightTriple) *WeightedCount {
	agg := NewWeightedCount(weights)
	for _, a := range actors {
		agg.Add(a.Complexity)
	}
	return agg
}

// ReplayUseCases rebuilds the UUCW aggregate from scratch.
func ReplayUseCases(useCases []domain.UseCase, weights domain.WeightTriple) *WeightedCount {
	agg := NewWeightedCount(weights)
	for _, u := range useCases {
		agg.Add(u.Complexity)
	}
	return agg
}

// FactorAggregate maintains the running sum of weight*influence over a fixed
// factor set, plus the per-category counts shown in summaries.
type FactorAggregate struct {
	results    map[string]float64
	categories map[string]domain.InfluenceCategory
}

func NewFactorAggregate() *FactorAggregate {
	return &FactorAggregate{
		results:    make(map[string]float64),
		categories: make(map[string]domain.InfluenceCategory),
	}
}

// Set records one factor's weight and influence, replacing any previous value
// for the same code.
func (f *FactorAggregate) Set(code string, weight float64, influence int) {
	f.results[code] = Round4(weight * float64(influence))
	f.categories[code] = domain.CategorizeInfluence(influence)
}

func (f *FactorAggregate) Result(code string) float64 {
	return f.results[code]
}

// Total is the TFactor or EFactor sum, rounded to four decimals.
func (f *FactorAggregate) Total() float64 {
	total := 0.0
	for _, r := range f.results {
		total += r
	}
	return Round4(total)
}

// CategoryCounts tallies how many factors fall in each influence bucket.
func (f *FactorAggregate) CategoryCounts() map[domain.InfluenceCategory]int {
	counts := map[domain.InfluenceCategory]int{
		domain.Irrelevant: 0,
		domain.Medium:     0,
		domain.Essential:  0,
	}
	for _, c := range f.categories {
		counts[c]++
	}
	return counts
}

// ReplayFactors rebuilds the factor aggregate from scratch.
func ReplayFactors(factors []domain.Factor) *FactorAggregate {
	agg := NewFactorAggregate()
	for _, f := range factors {
		agg.Set(f.Factor, f.Weight, f.Influence)
	}
	return agg
}
