package app

import (
	"math"
	"testing"
)

func TestComplementaritySymmetry(t *testing.T) {
	pairs := [][2][]float64{
		{{0.8, 0.9, 0.2}, {0.3, 0.2, 0.9}},
		{{1, 0, 0.5}, {0, 1, 0.5}},
		{{0.33, 0.66, 0.99}, {0.25, 0.5, 0.75}},
		{{0, 0, 0}, {0.4, 0.4, 0.4}},
	}
	for _, p := range pairs {
		ab := Complementarity(p[0], p[1])
		ba := Complementarity(p[1], p[0])
		if ab != ba {
			t.Fatalf("score not symmetric: %v vs %v for %v / %v", ab, ba, p[0], p[1])
		}
		if ab < 0 || ab > 1 {
			t.Fatalf("score out of range: %v", ab)
		}
	}
}

func TestComplementarityKnownPair(t *testing.T) {
	// coverage = mean(0.8, 0.9, 0.9); cosine = 0.6 / (sqrt(1.49)*sqrt(0.94))
	got := Complementarity([]float64{0.8, 0.9, 0.2}, []float64{0.3, 0.2, 0.9})
	if got != 0.7172 {
		t.Fatalf("expected 0.7172, got %v", got)
	}
}

func TestComplementaritySelf(t *testing.T) {
	a := []float64{0.8, 0.9, 0.2}
	mean := (0.8 + 0.9 + 0.2) / 3
	got := Complementarity(a, a)
	// Self-comparison has zero diversity, so only the coverage term remains.
	if math.Abs(got-coverageWeight*mean) > 1e-4 {
		t.Fatalf("expected self score ~%v, got %v", coverageWeight*mean, got)
	}
	if got < coverageWeight*mean-1e-9 || got > 1 {
		t.Fatalf("self score %v outside [%v, 1]", got, coverageWeight*mean)
	}
}

func TestComplementarityZeroVectors(t *testing.T) {
	zero := []float64{0, 0, 0}
	// Zero coverage, maximal diversity: exactly the diversity weight.
	if got := Complementarity(zero, zero); got != 0.4 {
		t.Fatalf("expected 0.4 for two zero vectors, got %v", got)
	}
	// One empty profile must not divide by zero either.
	if got := Complementarity(zero, []float64{0.5, 0.5, 0.5}); got < 0 || got > 1 {
		t.Fatalf("score out of range with one zero vector: %v", got)
	}
}

func TestComplementarityLengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on length mismatch")
		}
	}()
	Complementarity([]float64{1}, []float64{1, 2})
}

func TestRankMatchesOrderAndTruncation(t *testing.T) {
	requester := []float64{0.9, 0.9, 0.1}
	vectors := map[string][]float64{
		"similar":  {0.9, 0.9, 0.1},
		"opposite": {0.1, 0.1, 0.9},
		"middling": {0.5, 0.5, 0.5},
	}
	candidates := []string{"similar", "opposite", "middling"}

	ranked := RankMatches(requester, candidates, vectors, 10)
	if len(ranked) != 3 {
		t.Fatalf("expected all candidates, got %d", len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Fatalf("ranking not sorted descending: %+v", ranked)
		}
	}
	if ranked[0].StudentID != "opposite" {
		t.Fatalf("expected the complementary profile to rank first, got %+v", ranked[0])
	}

	top1 := RankMatches(requester, candidates, vectors, 1)
	if len(top1) != 1 || top1[0].StudentID != "opposite" {
		t.Fatalf("expected truncation to top 1, got %+v", top1)
	}
}

func TestRankMatchesStableTies(t *testing.T) {
	requester := []float64{0.2, 0.8}
	vectors := map[string][]float64{
		"first":  {0.7, 0.3},
		"second": {0.7, 0.3},
	}
	ranked := RankMatches(requester, []string{"first", "second"}, vectors, 5)
	if ranked[0].StudentID != "first" || ranked[1].StudentID != "second" {
		t.Fatalf("tie broke input order: %+v", ranked)
	}
	if ranked[0].Score != ranked[1].Score {
		t.Fatalf("expected a tie, got %+v", ranked)
	}
}
