package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ChiefVishPat/payroll-sentinel/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO sentinel.users (username, email, password_hash, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM sentinel.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateCompany creates a new monitored company
func (r *Repository) CreateCompany(company *models.Company) error {
	query := `
		INSERT INTO sentinel.companies (user_id, name, alert_email, account_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, company.UserID, company.Name, company.AlertEmail, company.AccountRef).
		Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	return nil
}

// FindCompanyByID retrieves a company by its ID
func (r *Repository) FindCompanyByID(id int64) (*models.Company, error) {
	company := &models.Company{}
	query := `
		SELECT id, user_id, name, alert_email, account_ref, created_at, updated_at
		FROM sentinel.companies
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&company.ID, &company.UserID, &company.Name, &company.AlertEmail,
			&company.AccountRef, &company.CreatedAt, &company.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("company not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	return company, nil
}

// ListCompanies retrieves all companies belonging to a user
func (r *Repository) ListCompanies(userID int64) ([]models.Company, error) {
	query := `
		SELECT id, user_id, name, alert_email, account_ref, created_at, updated_at
		FROM sentinel.companies
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []models.Company
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.AlertEmail,
			&c.AccountRef, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// ListAllCompanies retrieves every monitored company, for the scheduler sweep
func (r *Repository) ListAllCompanies() ([]models.Company, error) {
	query := `
		SELECT id, user_id, name, alert_email, account_ref, created_at, updated_at
		FROM sentinel.companies
		ORDER BY id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []models.Company
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.AlertEmail,
			&c.AccountRef, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// CreateObligation stores a scheduled payroll obligation
func (r *Repository) CreateObligation(o *models.Obligation) error {
	query := `
		INSERT INTO sentinel.obligations (company_id, amount, due_date, description, employee_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.db.QueryRow(query, o.CompanyID, o.Amount, o.Date, o.Description, o.EmployeeCount).
		Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("failed to create obligation: %w", err)
	}
	return nil
}

// ListUpcomingObligations returns obligations due on or after from, soonest
// first. The ordering matters: the risk engine treats the first obligation
// as the next payroll run.
func (r *Repository) ListUpcomingObligations(companyID int64, from time.Time) ([]models.Obligation, error) {
	query := `
		SELECT id, company_id, amount, due_date, description, employee_count
		FROM sentinel.obligations
		WHERE company_id = $1 AND due_date >= $2
		ORDER BY due_date, id`
	rows, err := r.db.Query(query, companyID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	defer rows.Close()

	var obligations []models.Obligation
	for rows.Next() {
		var o models.Obligation
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.Amount, &o.Date, &o.Description, &o.EmployeeCount); err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		obligations = append(obligations, o)
	}
	return obligations, rows.Err()
}

// CreateInflow stores an expected incoming payment
func (r *Repository) CreateInflow(in *models.Inflow) error {
	query := `
		INSERT INTO sentinel.inflows (company_id, amount, due_date, description, confidence)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.db.QueryRow(query, in.CompanyID, in.Amount, in.Date, in.Description, string(in.Confidence)).
		Scan(&in.ID)
	if err != nil {
		return fmt.Errorf("failed to create inflow: %w", err)
	}
	return nil
}

// ListUpcomingInflows returns expected inflows due on or after from, soonest first
func (r *Repository) ListUpcomingInflows(companyID int64, from time.Time) ([]models.Inflow, error) {
	query := `
		SELECT id, company_id, amount, due_date, description, confidence
		FROM sentinel.inflows
		WHERE company_id = $1 AND due_date >= $2
		ORDER BY due_date, id`
	rows, err := r.db.Query(query, companyID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list inflows: %w", err)
	}
	defer rows.Close()

	var inflows []models.Inflow
	for rows.Next() {
		var in models.Inflow
		var confidence string
		if err := rows.Scan(&in.ID, &in.CompanyID, &in.Amount, &in.Date, &in.Description, &confidence); err != nil {
			return nil, fmt.Errorf("failed to scan inflow: %w", err)
		}
		in.Confidence = models.Confidence(confidence)
		inflows = append(inflows, in)
	}
	return inflows, rows.Err()
}

// SaveAssessment persists an assessment result with its computed score.
// Projections and recommendations are stored as JSONB.
func (r *Repository) SaveAssessment(companyID int64, a *models.RiskAssessment, score int) error {
	projections, err := json.Marshal(a.Projections)
	if err != nil {
		return fmt.Errorf("failed to marshal projections: %w", err)
	}
	recommendations, err := json.Marshal(a.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	query := `
		INSERT INTO sentinel.risk_assessments
			(company_id, current_balance, required_float, risk_level, risk_score,
			 days_until_risk, recommendations, projections, assessed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.db.Exec(query, companyID, a.CurrentBalance, a.RequiredFloat,
		string(a.RiskLevel), score, a.DaysUntilRisk, recommendations, projections, a.AssessmentDate)
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	return nil
}

// LatestAssessment retrieves the most recent assessment for a company
func (r *Repository) LatestAssessment(companyID int64) (*models.RiskAssessment, int, error) {
	a := &models.RiskAssessment{}
	var id int64
	var level string
	var score int
	var recommendations, projections []byte
	query := `
		SELECT company_id, current_balance, required_float, risk_level, risk_score,
		       days_until_risk, recommendations, projections, assessed_at
		FROM sentinel.risk_assessments
		WHERE company_id = $1
		ORDER BY assessed_at DESC
		LIMIT 1`
	var assessedAt time.Time
	err := r.db.QueryRow(query, companyID).
		Scan(&id, &a.CurrentBalance, &a.RequiredFloat, &level, &score,
			&a.DaysUntilRisk, &recommendations, &projections, &assessedAt)
	if err == sql.ErrNoRows {
		return nil, 0, fmt.Errorf("no assessments for company %d", companyID)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load assessment: %w", err)
	}
	a.CompanyID = strconv.FormatInt(id, 10)
	a.RiskLevel = models.RiskLevel(level)
	a.AssessmentDate = assessedAt.Format(time.RFC3339)
	if err := json.Unmarshal(recommendations, &a.Recommendations); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal recommendations: %w", err)
	}
	if err := json.Unmarshal(projections, &a.Projections); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal projections: %w", err)
	}
	return a, score, nil
}
