package analyzer

import "math"

const (
	keywordWeight    = 0.5
	skillWeight      = 0.3
	actionVerbWeight = 0.2

	actionVerbTarget = 25
)

// Score combines the ratios and the action-verb count into a 0-100 ATS score.
func Score(keywordMatchRatio, skillMatchRatio float64, actionVerbCount int) int {
	keywordMatch := keywordMatchRatio * 100
	skillMatch := skillMatchRatio * 100
	verbStrength := math.Min(float64(actionVerbCount)/actionVerbTarget*100, 100)

	s := keywordMatch*keywordWeight + skillMatch*skillWeight + verbStrength*actionVerbWeight
	return int(math.Round(math.Max(0, math.Min(100, s))))
}

func ImprovementPotential(atsScore int) int {
	return max(0, 100-atsScore)
}
