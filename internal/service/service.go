package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ChiefVishPat/payroll-sentinel/internal/config"
	"github.com/ChiefVishPat/payroll-sentinel/internal/models"
	"github.com/ChiefVishPat/payroll-sentinel/internal/risk"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Store is the persistence surface the service depends on
type Store interface {
	CreateUser(user *models.User) error
	FindUserByEmail(email string) (*models.User, error)
	CreateCompany(company *models.Company) error
	FindCompanyByID(id int64) (*models.Company, error)
	ListCompanies(userID int64) ([]models.Company, error)
	ListAllCompanies() ([]models.Company, error)
	CreateObligation(o *models.Obligation) error
	ListUpcomingObligations(companyID int64, from time.Time) ([]models.Obligation, error)
	CreateInflow(in *models.Inflow) error
	ListUpcomingInflows(companyID int64, from time.Time) ([]models.Inflow, error)
	SaveAssessment(companyID int64, a *models.RiskAssessment, score int) error
	LatestAssessment(companyID int64) (*models.RiskAssessment, int, error)
}

// BalanceSource supplies the current balance for an account at the banking provider
type BalanceSource interface {
	CurrentBalance(ctx context.Context, accountRef string) (float64, error)
}

// ObligationSource supplies upcoming payroll runs from the payroll provider
type ObligationSource interface {
	UpcomingRuns(ctx context.Context, accountRef string) ([]models.Obligation, error)
}

// AlertSender delivers warning/critical assessments to a human
type AlertSender interface {
	SendRiskAlert(to, companyName string, assessment *models.RiskAssessment, score int) error
}

// MetricsRecorder records assessment outcomes
type MetricsRecorder interface {
	AssessmentCompleted(level models.RiskLevel, score int)
	AssessmentFailed()
	AlertSent()
}

// Service handles business logic
type Service struct {
	store    Store
	balances BalanceSource
	payroll  ObligationSource
	alerts   AlertSender
	metrics  MetricsRecorder
	engine   *risk.Engine
	log      *logrus.Logger
	config   *config.Config
}

// NewService initializes a new service
func NewService(store Store, balances BalanceSource, payroll ObligationSource,
	alerts AlertSender, metrics MetricsRecorder, engine *risk.Engine,
	log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		store:    store,
		balances: balances,
		payroll:  payroll,
		alerts:   alerts,
		metrics:  metrics,
		engine:   engine,
		log:      log,
		config:   cfg,
	}
}

// Register creates a new user with hashed password
func (s *Service) Register(username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.store.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// CreateCompany registers a company to monitor for the authenticated user
func (s *Service) CreateCompany(ctx context.Context, name, alertEmail, accountRef string) (*models.Company, error) {
	userID, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	company := &models.Company{
		UserID:     userID,
		Name:       name,
		AlertEmail: alertEmail,
		AccountRef: accountRef,
	}

	if err := s.store.CreateCompany(company); err != nil {
		return nil, err
	}

	s.log.Infof("Company registered for user %d: %s", userID, company.Name)
	return company, nil
}

// ListCompanies returns the authenticated user's companies
func (s *Service) ListCompanies(ctx context.Context) ([]models.Company, error) {
	userID, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListCompanies(userID)
}

// AddObligation stores a scheduled payroll run for one of the user's companies
func (s *Service) AddObligation(ctx context.Context, o *models.Obligation) error {
	if o.Amount < 0 {
		return fmt.Errorf("obligation amount must not be negative")
	}
	if _, err := s.companyForUser(ctx, o.CompanyID); err != nil {
		return err
	}
	return s.store.CreateObligation(o)
}

// AddInflow stores an expected incoming payment for one of the user's companies
func (s *Service) AddInflow(ctx context.Context, in *models.Inflow) error {
	if in.Amount < 0 {
		return fmt.Errorf("inflow amount must not be negative")
	}
	if _, err := s.companyForUser(ctx, in.CompanyID); err != nil {
		return err
	}
	return s.store.CreateInflow(in)
}

// TriggerAssessment runs an assessment for one of the user's companies
func (s *Service) TriggerAssessment(ctx context.Context, companyID int64) (*models.RiskAssessment, int, error) {
	if _, err := s.companyForUser(ctx, companyID); err != nil {
		return nil, 0, err
	}
	return s.RunAssessment(ctx, companyID)
}

// LatestAssessment returns the most recent stored assessment for one of the
// user's companies, along with its risk score.
func (s *Service) LatestAssessment(ctx context.Context, companyID int64) (*models.RiskAssessment, int, error) {
	if _, err := s.companyForUser(ctx, companyID); err != nil {
		return nil, 0, err
	}
	return s.store.LatestAssessment(companyID)
}

// RunAssessment performs a full risk assessment for a company: it pulls the
// balance from the banking provider and the payroll schedule from the payroll
// provider, runs the engine, persists the result, and alerts when the company
// is at risk. The scheduler calls this directly for every company.
func (s *Service) RunAssessment(ctx context.Context, companyID int64) (*models.RiskAssessment, int, error) {
	company, err := s.store.FindCompanyByID(companyID)
	if err != nil {
		s.metrics.AssessmentFailed()
		return nil, 0, err
	}

	balance, err := s.balances.CurrentBalance(ctx, company.AccountRef)
	if err != nil {
		s.metrics.AssessmentFailed()
		return nil, 0, fmt.Errorf("failed to fetch balance for company %d: %w", companyID, err)
	}

	obligations, err := s.payroll.UpcomingRuns(ctx, company.AccountRef)
	if err != nil {
		// Fall back to the stored schedule when the payroll provider is down.
		s.log.Warnf("Payroll provider unavailable for company %d, using stored obligations: %v", companyID, err)
		obligations, err = s.store.ListUpcomingObligations(companyID, time.Now())
		if err != nil {
			s.metrics.AssessmentFailed()
			return nil, 0, err
		}
	}

	inflows, err := s.store.ListUpcomingInflows(companyID, time.Now())
	if err != nil {
		s.metrics.AssessmentFailed()
		return nil, 0, err
	}

	assessment, err := s.engine.PerformAssessment(strconv.FormatInt(companyID, 10), balance, obligations, inflows)
	if err != nil {
		s.metrics.AssessmentFailed()
		return nil, 0, fmt.Errorf("assessment failed for company %d: %w", companyID, err)
	}
	score := risk.Score(assessment)

	if err := s.store.SaveAssessment(companyID, assessment, score); err != nil {
		s.metrics.AssessmentFailed()
		return nil, 0, err
	}
	s.metrics.AssessmentCompleted(assessment.RiskLevel, score)

	if assessment.RiskLevel != models.RiskSafe && company.AlertEmail != "" {
		if err := s.alerts.SendRiskAlert(company.AlertEmail, company.Name, assessment, score); err != nil {
			s.log.Errorf("Failed to send risk alert for company %d: %v", companyID, err)
		} else {
			s.metrics.AlertSent()
		}
	}

	s.log.Infof("Assessment for company %d: level=%s score=%d", companyID, assessment.RiskLevel, score)
	return assessment, score, nil
}

// AssessAllCompanies runs an assessment for every monitored company. Errors
// are logged per company and never abort the sweep.
func (s *Service) AssessAllCompanies(ctx context.Context) {
	companies, err := s.store.ListAllCompanies()
	if err != nil {
		s.log.Errorf("Failed to list companies for scheduled assessment: %v", err)
		return
	}
	for _, company := range companies {
		if _, _, err := s.RunAssessment(ctx, company.ID); err != nil {
			s.log.Errorf("Scheduled assessment failed for company %d: %v", company.ID, err)
		}
	}
}

// companyForUser loads a company and verifies it belongs to the authenticated user
func (s *Service) companyForUser(ctx context.Context, companyID int64) (*models.Company, error) {
	userID, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	company, err := s.store.FindCompanyByID(companyID)
	if err != nil {
		return nil, err
	}
	if company.UserID != userID {
		return nil, fmt.Errorf("company does not belong to user")
	}
	return company, nil
}

func userFromContext(ctx context.Context) (int64, error) {
	userIDStr, ok := ctx.Value("userID").(string)
	if !ok || userIDStr == "" {
		return 0, fmt.Errorf("user ID not found in context")
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID: %w", err)
	}
	return userID, nil
}
