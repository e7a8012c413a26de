package app

import (
	"math"

	"studymatch-service/internal/domain"
)

// UngradedPolicy controls how a submission without a grade contributes to a
// skill vector. The source data does not distinguish "not yet graded" from
// "graded as zero", so the choice is an explicit parameter of the builder.
type UngradedPolicy int

const (
	// UngradedSkip ignores ungraded submissions; the dimension stays at 0,
	// indistinguishable from never attempted. This is the default.
	UngradedSkip UngradedPolicy = iota
	// UngradedZero counts an ungraded submission as a real zero score. With
	// last-record-wins duplicate handling this can overwrite an earlier grade.
	UngradedZero
)

// ParseUngradedPolicy maps a config string to a policy, defaulting to skip.
func ParseUngradedPolicy(raw string) UngradedPolicy {
	if raw == "zero" {
		return UngradedZero
	}
	return UngradedSkip
}

// BuildSkillVectors converts sparse submission records into one dense vector
// per enrolled student, one dimension per assessment item in item order.
// Every entry is a normalized score in [0,1]; a dimension the student never
// attempted stays exactly 0. Submissions for unknown students or items are
// ignored. Duplicate records for the same (student, item) pair resolve to
// the last one seen.
func BuildSkillVectors(items []domain.AssessmentItem, students []string, subs []domain.SubmissionRecord, policy UngradedPolicy) map[string][]float64 {
	index := make(map[string]int, len(items))
	for i, item := range items {
		index[item.ID] = i
	}

	vectors := make(map[string][]float64, len(students))
	for _, id := range students {
		vectors[id] = make([]float64, len(items))
	}

	for _, sub := range subs {
		vec, ok := vectors[sub.StudentID]
		if !ok {
			continue
		}
		dim, ok := index[sub.ItemID]
		if !ok {
			continue
		}
		if sub.Score == nil {
			if policy == UngradedZero {
				vec[dim] = 0
			}
			continue
		}
		if sub.OutOf <= 0 {
			// Unknown denominator: treat as unattempted rather than divide.
			vec[dim] = 0
			continue
		}
		vec[dim] = clip01(*sub.Score / sub.OutOf)
	}
	return vectors
}

func clip01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
