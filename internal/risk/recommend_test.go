package risk

import (
	"fmt"
	"testing"

	"github.com/ChiefVishPat/payroll-sentinel/internal/models"
)

func TestRecommendations_CriticalOrder(t *testing.T) {
	projections := []models.Projection{
		{RiskLevel: models.RiskCritical},
		{RiskLevel: models.RiskWarning},
		{RiskLevel: models.RiskSafe},
	}

	recs := Recommendations(models.RiskCritical, projections)

	if len(recs) != len(criticalRecommendations)+2 {
		t.Fatalf("expected %d recommendations, got %d: %v", len(criticalRecommendations)+2, len(recs), recs)
	}
	for i, want := range criticalRecommendations {
		if recs[i] != want {
			t.Errorf("recommendation %d: expected %q, got %q", i, want, recs[i])
		}
	}
	if recs[len(recs)-2] != "2 potential future cash flow issues detected" {
		t.Errorf("unexpected future-risk summary: %q", recs[len(recs)-2])
	}
	if recs[len(recs)-1] != "1 projected events drop below critical coverage" {
		t.Errorf("unexpected critical summary: %q", recs[len(recs)-1])
	}
}

func TestRecommendations_WarningWithoutCriticalProjections(t *testing.T) {
	projections := []models.Projection{
		{RiskLevel: models.RiskWarning},
		{RiskLevel: models.RiskSafe},
	}

	recs := Recommendations(models.RiskWarning, projections)

	if len(recs) != len(warningRecommendations)+1 {
		t.Fatalf("expected %d recommendations, got %d: %v", len(warningRecommendations)+1, len(recs), recs)
	}
	if recs[len(recs)-1] != "1 potential future cash flow issues detected" {
		t.Errorf("unexpected future-risk summary: %q", recs[len(recs)-1])
	}
}

func TestRecommendations_SafeNoSummaries(t *testing.T) {
	projections := []models.Projection{
		{RiskLevel: models.RiskSafe},
		{RiskLevel: models.RiskSafe},
	}

	recs := Recommendations(models.RiskSafe, projections)

	if len(recs) != len(safeRecommendations) {
		t.Fatalf("expected only base recommendations, got %v", recs)
	}
	for i, want := range safeRecommendations {
		if recs[i] != want {
			t.Errorf("recommendation %d: expected %q, got %q", i, want, recs[i])
		}
	}
}

func TestScore_Monotonicity(t *testing.T) {
	base := models.RiskAssessment{DaysUntilRisk: 10}

	safe := base
	safe.RiskLevel = models.RiskSafe
	warning := base
	warning.RiskLevel = models.RiskWarning
	critical := base
	critical.RiskLevel = models.RiskCritical

	if !(Score(&critical) > Score(&warning) && Score(&warning) > Score(&safe)) {
		t.Errorf("expected critical > warning > safe, got %d / %d / %d",
			Score(&critical), Score(&warning), Score(&safe))
	}
}

func TestScore_UrgencyBuckets(t *testing.T) {
	cases := []struct {
		days int
		want int
	}{
		{1, 30},  // 10 base + 20
		{2, 20},  // 10 base + 10
		{3, 20},  // 10 base + 10
		{7, 15},  // 10 base + 5
		{10, 10}, // 10 base only
	}
	for _, c := range cases {
		a := models.RiskAssessment{RiskLevel: models.RiskSafe, DaysUntilRisk: c.days}
		if got := Score(&a); got != c.want {
			t.Errorf("days=%d: expected score %d, got %d", c.days, c.want, got)
		}
	}
}

func TestScore_FutureRiskCapped(t *testing.T) {
	var projections []models.Projection
	for i := 0; i < 20; i++ {
		projections = append(projections, models.Projection{RiskLevel: models.RiskWarning})
	}
	a := models.RiskAssessment{RiskLevel: models.RiskSafe, DaysUntilRisk: 30, Projections: projections}

	if got := Score(&a); got != 20 { // 10 base + capped 10
		t.Errorf("expected future-risk addend capped at 10, got score %d", got)
	}
}

func TestScore_Ceiling(t *testing.T) {
	var projections []models.Projection
	for i := 0; i < 50; i++ {
		projections = append(projections, models.Projection{RiskLevel: models.RiskCritical})
	}
	a := models.RiskAssessment{
		RiskLevel:     models.RiskCritical,
		DaysUntilRisk: 0,
		Projections:   projections,
	}

	if got := Score(&a); got != 100 {
		t.Errorf("expected score capped at 100, got %d", got)
	}
}

func TestRecommendations_CountMessageFormat(t *testing.T) {
	projections := make([]models.Projection, 5)
	for i := range projections {
		projections[i].RiskLevel = models.RiskCritical
	}

	recs := Recommendations(models.RiskCritical, projections)

	want := fmt.Sprintf("%d potential future cash flow issues detected", 5)
	found := false
	for _, r := range recs {
		if r == want {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %q in %v", want, recs)
	}
}
