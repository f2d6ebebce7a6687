// Package priority ranks topics by study urgency and picks the teaching mode
// for each mastery band. All functions here are pure; exam-weight availability
// is an explicit input, never hidden state.
package priority

import "math"

// Teaching modes.
const (
	ModeExplain   = "explain"
	ModeSocratic  = "socratic"
	ModeHypo      = "hypo"
	ModeIssueSpot = "issue_spot"
	ModeIRAC      = "irac"
)

// ComputePriority scores how urgently a topic should be studied.
// examWeight is the fraction of the exam testing this topic (0-1), mastery the
// learner's current command (0-100). Monotonic increasing in examWeight,
// decreasing in mastery.
func ComputePriority(examWeight, mastery float64) float64 {
	knowledgeGap := 1.0 - mastery/100.0
	return examWeight * knowledgeGap
}

// DefaultWeight is the equal-share weight used for every topic of a subject
// that has no analyzed exam data.
func DefaultWeight(topicCount int) float64 {
	if topicCount == 0 {
		return 0.1
	}
	return 1.0 / float64(topicCount)
}

// SelectTeachingMode maps a mastery value to the optimal teaching mode for
// that band. Total over [0,100]: every value maps to exactly one mode.
func SelectTeachingMode(mastery float64, hasExamData bool) (mode, reason string) {
	switch {
	case mastery < 15:
		return ModeExplain, "Near-zero knowledge - need foundational concepts first (compressed teaching)"
	case mastery < 35:
		return ModeExplain, "Low mastery - building core knowledge before testing understanding"
	case mastery < 55:
		return ModeSocratic, "Moderate base - probing understanding to find and fill specific gaps"
	case mastery < 75:
		return ModeHypo, "Solid base - testing rule boundaries with fact variations"
	case mastery < 90:
		if hasExamData {
			return ModeIssueSpot, "Strong knowledge - exam-style issue spotting for test readiness"
		}
		return ModeIRAC, "Strong knowledge - structured analysis practice"
	default:
		return ModeIRAC, "Near-mastery - full IRAC exam simulation to polish performance"
	}
}

// EstimateMinutes estimates study time for a topic from its mastery gap.
// Rule of thumb: ~5 minutes per 10% of gap, floor of 5.
func EstimateMinutes(mastery float64) int {
	gap := 100.0 - mastery
	est := int(math.Round(gap * 0.5))
	if est < 5 {
		return 5
	}
	return est
}
