package risk

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ChiefVishPat/payroll-sentinel/internal/models"
)

// ErrNegativeAmount is returned when a payroll amount is negative. Negative
// amounts indicate corrupt upstream data, so the assessment is aborted
// rather than patched with a default.
var ErrNegativeAmount = errors.New("payroll amount must not be negative")

// DefaultSafetyMultiplier is the buffer applied on top of a payroll amount
// when no multiplier is configured (10% safety margin).
const DefaultSafetyMultiplier = 1.1

// Engine computes cash-flow risk assessments. It holds no state between
// calls; the wall clock is read once per assessment so day counts and the
// assessment timestamp always agree.
type Engine struct {
	multiplier float64
	now        func() time.Time
}

// NewEngine creates an engine with the given safety multiplier. Values <= 0
// fall back to DefaultSafetyMultiplier.
func NewEngine(safetyMultiplier float64) *Engine {
	if safetyMultiplier <= 0 {
		safetyMultiplier = DefaultSafetyMultiplier
	}
	return &Engine{multiplier: safetyMultiplier, now: time.Now}
}

// RequiredFloat returns the minimum balance needed to safely cover a payroll
// run: the amount times the safety multiplier, rounded to cents.
func (e *Engine) RequiredFloat(payrollAmount float64) (float64, error) {
	if payrollAmount < 0 {
		return 0, fmt.Errorf("invalid payroll amount %.2f: %w", payrollAmount, ErrNegativeAmount)
	}
	return round2(payrollAmount * e.multiplier), nil
}

// round2 rounds half away from zero to two decimals; amounts here are never
// negative, so this behaves as plain half-up.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DetermineRiskLevel classifies a balance against a required float. A zero
// float means there is no obligation, which is always safe regardless of
// the balance sign.
func DetermineRiskLevel(currentBalance, requiredFloat float64) models.RiskLevel {
	if requiredFloat == 0 {
		return models.RiskSafe
	}
	coverage := currentBalance / requiredFloat
	switch {
	case coverage >= 1.0:
		return models.RiskSafe
	case coverage >= 0.8:
		return models.RiskWarning
	default:
		return models.RiskCritical
	}
}

// DaysUntil returns the number of calendar days from now until target,
// rounded up. Past dates yield negative values.
func DaysUntil(target, now time.Time) int {
	return int(math.Ceil(target.Sub(now).Hours() / 24))
}

// cashFlowEvent is a dated obligation or inflow, used only while building
// projections.
type cashFlowEvent struct {
	date        time.Time
	amount      float64
	inflow      bool
	description string
}

// Projections merges obligations and inflows into a single chronological
// balance timeline. The sort is stable: same-date events keep their input
// order, with obligations ahead of inflows. Output length always equals
// len(obligations) + len(inflows).
func (e *Engine) Projections(currentBalance float64, obligations []models.Obligation, inflows []models.Inflow) []models.Projection {
	events := make([]cashFlowEvent, 0, len(obligations)+len(inflows))
	for _, o := range obligations {
		desc := o.Description
		if desc == "" {
			desc = fmt.Sprintf("Payroll - %d employees", o.EmployeeCount)
		}
		events = append(events, cashFlowEvent{date: o.Date, amount: o.Amount, description: desc})
	}
	for _, in := range inflows {
		desc := in.Description
		if desc == "" {
			desc = "Expected income"
		}
		events = append(events, cashFlowEvent{date: in.Date, amount: in.Amount, inflow: true, description: desc})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].date.Before(events[j].date)
	})

	projections := make([]models.Projection, 0, len(events))
	balance := currentBalance
	for _, ev := range events {
		var in, out float64
		if ev.inflow {
			in = ev.amount
		} else {
			out = ev.amount
		}
		net := in - out
		balance += net

		// Inflows carry no obligation, so their required float is zero
		// and they always classify as safe.
		var required float64
		if !ev.inflow {
			required = round2(ev.amount * e.multiplier)
		}

		projections = append(projections, models.Projection{
			Date:            ev.date.Format("2006-01-02"),
			ExpectedInflow:  in,
			ExpectedOutflow: out,
			NetFlow:         net,
			RunningBalance:  balance,
			RiskLevel:       DetermineRiskLevel(balance, required),
			Description:     ev.description,
		})
	}
	return projections
}

// PerformAssessment runs a full risk evaluation for a company. The first
// obligation is treated as the next payroll run, so callers must pass
// obligations sorted ascending by date.
func (e *Engine) PerformAssessment(companyID string, currentBalance float64, obligations []models.Obligation, inflows []models.Inflow) (*models.RiskAssessment, error) {
	now := e.now()

	var requiredFloat float64
	var daysUntilRisk int
	if len(obligations) > 0 {
		next := obligations[0]
		f, err := e.RequiredFloat(next.Amount)
		if err != nil {
			return nil, err
		}
		requiredFloat = f
		daysUntilRisk = DaysUntil(next.Date, now)
	}

	level := DetermineRiskLevel(currentBalance, requiredFloat)
	projections := e.Projections(currentBalance, obligations, inflows)

	assessment := &models.RiskAssessment{
		CompanyID:       companyID,
		CurrentBalance:  currentBalance,
		RequiredFloat:   requiredFloat,
		RiskLevel:       level,
		DaysUntilRisk:   daysUntilRisk,
		Recommendations: Recommendations(level, projections),
		Projections:     projections,
		AssessmentDate:  now.Format(time.RFC3339),
	}
	if len(obligations) > 0 {
		next := obligations[0]
		// Zero-valued next-payroll fields are dropped from the result.
		if !next.Date.IsZero() {
			assessment.NextPayrollDate = next.Date.Format("2006-01-02")
		}
		if next.Amount > 0 {
			assessment.NextPayrollAmount = next.Amount
		}
	}
	return assessment, nil
}
