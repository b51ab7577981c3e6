package models

// RiskLevel classifies cash coverage for an obligation
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskWarning  RiskLevel = "warning"
	RiskCritical RiskLevel = "critical"
)

// Projection represents one simulated point of the future balance timeline
type Projection struct {
	Date            string    `json:"date"` // Format: YYYY-MM-DD
	ExpectedInflow  float64   `json:"expected_inflow"`
	ExpectedOutflow float64   `json:"expected_outflow"`
	NetFlow         float64   `json:"net_flow"`
	RunningBalance  float64   `json:"running_balance"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Description     string    `json:"description,omitempty"`
}

// RiskAssessment is the result of a single risk evaluation for a company
type RiskAssessment struct {
	CompanyID         string       `json:"company_id"`
	CurrentBalance    float64      `json:"current_balance"`
	RequiredFloat     float64      `json:"required_float"`
	RiskLevel         RiskLevel    `json:"risk_level"`
	DaysUntilRisk     int          `json:"days_until_risk"`
	Recommendations   []string     `json:"recommendations"`
	Projections       []Projection `json:"projections"`
	AssessmentDate    string       `json:"assessment_date"` // ISO 8601
	NextPayrollDate   string       `json:"next_payroll_date,omitempty"`
	NextPayrollAmount float64      `json:"next_payroll_amount,omitempty"`
}
