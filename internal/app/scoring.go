package app

import (
	"fmt"
	"math"
	"sort"
)

// Weights of the two halves of the complementarity score: joint topic
// coverage dominates, profile diversity breaks the near-ties.
const (
	coverageWeight  = 0.6
	diversityWeight = 0.4
)

// Complementarity scores how well two skill vectors pair up for studying:
// 0.6*coverage + 0.4*diversity, rounded to 4 decimal places.
//
// Coverage is the mean of the elementwise max of the two vectors. Diversity
// is one minus their cosine similarity; a zero-norm vector has diversity 1.0
// so students with no data are not penalized. The function is commutative
// and always returns a finite value in [0,1] for entries in [0,1].
//
// Both vectors must come from the same dimension list; a length mismatch is
// a programming error and panics.
func Complementarity(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("skill vector length mismatch: %d vs %d", len(a), len(b)))
	}
	if len(a) == 0 {
		return round4(diversityWeight)
	}

	var sumMax, dot, normA, normB float64
	for i := range a {
		sumMax += math.Max(a[i], b[i])
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	coverage := sumMax / float64(len(a))
	diversity := 1.0
	if normA > 0 && normB > 0 {
		diversity = 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
	}
	return round4(coverageWeight*coverage + diversityWeight*diversity)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// RankedCandidate pairs a candidate student with a complementarity score.
type RankedCandidate struct {
	StudentID string
	Score     float64
}

// RankMatches scores the requester against every candidate, sorts descending
// by score and truncates to topN. Candidates are scored in the given order
// and the sort is stable, so ties keep that order. Fewer candidates than
// topN is fine; all of them are returned.
func RankMatches(requester []float64, candidates []string, vectors map[string][]float64, topN int) []RankedCandidate {
	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, id := range candidates {
		ranked = append(ranked, RankedCandidate{
			StudentID: id,
			Score:     Complementarity(requester, vectors[id]),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if topN < len(ranked) {
		ranked = ranked[:topN]
	}
	return ranked
}
