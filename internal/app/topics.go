package app

import "studymatch-service/internal/domain"

// Two distinct threshold bands: strong/weak classify a single student's
// profile, while the looser help band decides whether a partner can
// realistically help on a topic. They look similar but are not the same
// knob and must not be unified.
const (
	strongThreshold = 0.7
	weakThreshold   = 0.4

	helperThreshold = 0.65
	helpeeThreshold = 0.45
)

// TopicProfile splits a skill vector into strong and weak topic labels.
// A dimension at exactly 0 means the student never attempted the item and
// is excluded from the weak list; "never tried" is not "tried and failed".
func TopicProfile(vec []float64, items []domain.AssessmentItem) (strengths, weaknesses []string) {
	strengths = []string{}
	weaknesses = []string{}
	for i, item := range items {
		switch v := vec[i]; {
		case v >= strongThreshold:
			strengths = append(strengths, item.Label())
		case v > 0 && v <= weakThreshold:
			weaknesses = append(weaknesses, item.Label())
		}
	}
	return strengths, weaknesses
}

// HelpTopics derives the asymmetric help lists for a matched pair: topics
// where the candidate can help the requester, and the reverse.
func HelpTopics(requester, candidate []float64, items []domain.AssessmentItem) (canHelpMe, iHelpThem []string) {
	canHelpMe = []string{}
	iHelpThem = []string{}
	for i, item := range items {
		if candidate[i] >= helperThreshold && requester[i] <= helpeeThreshold {
			canHelpMe = append(canHelpMe, item.Label())
		}
		if requester[i] >= helperThreshold && candidate[i] <= helpeeThreshold {
			iHelpThem = append(iHelpThem, item.Label())
		}
	}
	return canHelpMe, iHelpThem
}
