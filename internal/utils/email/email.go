package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ChiefVishPat/payroll-sentinel/internal/config"
	"github.com/ChiefVishPat/payroll-sentinel/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending risk alert emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendRiskAlert sends a payroll risk alert for a warning or critical
// assessment. Recommendations are always populated by the engine, so the
// body never needs defaulting.
func (s *Sender) SendRiskAlert(to, companyName string, assessment *models.RiskAssessment, score int) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if assessment.RiskLevel == models.RiskCritical {
		e.Subject = fmt.Sprintf("CRITICAL payroll risk for %s", companyName)
	} else {
		e.Subject = fmt.Sprintf("Payroll risk warning for %s", companyName)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Payroll risk assessment for %s\n\n", companyName)
	fmt.Fprintf(&body, "Risk level: %s (score %d/100)\n", assessment.RiskLevel, score)
	fmt.Fprintf(&body, "Current balance: %.2f\n", assessment.CurrentBalance)
	fmt.Fprintf(&body, "Required float: %.2f\n", assessment.RequiredFloat)
	if assessment.NextPayrollDate != "" {
		fmt.Fprintf(&body, "Next payroll: %s (%.2f), in %d days\n",
			assessment.NextPayrollDate, assessment.NextPayrollAmount, assessment.DaysUntilRisk)
	}
	body.WriteString("\nRecommendations:\n")
	for _, rec := range assessment.Recommendations {
		fmt.Fprintf(&body, "  - %s\n", rec)
	}
	body.WriteString("\nBest regards,\nPayroll Sentinel")
	e.Text = []byte(body.String())

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
