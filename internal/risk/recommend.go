package risk

import (
	"fmt"

	"github.com/ChiefVishPat/payroll-sentinel/internal/models"
)

// Fixed per-level recommendation sets, most urgent first.
var (
	criticalRecommendations = []string{
		"URGENT: Cash balance will not cover the next payroll run",
		"Draw on an existing credit line to cover the shortfall",
		"Delay non-essential payments until payroll clears",
		"Contact your bank about short-term financing options",
	}
	warningRecommendations = []string{
		"Monitor cash flow closely ahead of the next payroll run",
		"Prepare a backup funding source in case of a shortfall",
		"Accelerate collection of outstanding receivables",
		"Review and defer discretionary expenses",
	}
	safeRecommendations = []string{
		"Cash position is healthy for upcoming payroll",
		"Continue monitoring cash flow regularly",
	}
)

// Recommendations returns the advisory messages for an assessment: the
// per-level base set, then a future-risk summary, then a critical summary.
// Order is fixed and never deduplicated.
func Recommendations(level models.RiskLevel, projections []models.Projection) []string {
	var recs []string
	switch level {
	case models.RiskCritical:
		recs = append(recs, criticalRecommendations...)
	case models.RiskWarning:
		recs = append(recs, warningRecommendations...)
	default:
		recs = append(recs, safeRecommendations...)
	}

	var atRisk, critical int
	for _, p := range projections {
		if p.RiskLevel != models.RiskSafe {
			atRisk++
		}
		if p.RiskLevel == models.RiskCritical {
			critical++
		}
	}
	if atRisk > 0 {
		recs = append(recs, fmt.Sprintf("%d potential future cash flow issues detected", atRisk))
	}
	if critical > 0 {
		recs = append(recs, fmt.Sprintf("%d projected events drop below critical coverage", critical))
	}
	return recs
}

// Score condenses an assessment into a 0-100 urgency figure: a base score
// per risk level, an addend for time pressure, and an addend for the breadth
// of future risk, capped at 100.
func Score(a *models.RiskAssessment) int {
	var base int
	switch a.RiskLevel {
	case models.RiskCritical:
		base = 70
	case models.RiskWarning:
		base = 40
	default:
		base = 10
	}

	var urgency int
	switch {
	case a.DaysUntilRisk <= 1:
		urgency = 20
	case a.DaysUntilRisk <= 3:
		urgency = 10
	case a.DaysUntilRisk <= 7:
		urgency = 5
	}

	var atRisk int
	for _, p := range a.Projections {
		if p.RiskLevel != models.RiskSafe {
			atRisk++
		}
	}
	futureRisk := atRisk * 2
	if futureRisk > 10 {
		futureRisk = 10
	}

	score := base + urgency + futureRisk
	if score > 100 {
		score = 100
	}
	return score
}
