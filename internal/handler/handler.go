package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ChiefVishPat/payroll-sentinel/internal/models"
	"github.com/ChiefVishPat/payroll-sentinel/internal/service"
	"github.com/gorilla/mux"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createCompanyRequest struct {
	Name       string `json:"name"`
	AlertEmail string `json:"alert_email"`
	AccountRef string `json:"account_ref"`
}

type obligationRequest struct {
	Amount        float64 `json:"amount"`
	Date          string  `json:"date"` // YYYY-MM-DD
	Description   string  `json:"description"`
	EmployeeCount int     `json:"employee_count"`
}

type inflowRequest struct {
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Description string  `json:"description"`
	Confidence  string  `json:"confidence"`
}

type assessmentResponse struct {
	Assessment *models.RiskAssessment `json:"assessment"`
	RiskScore  int                    `json:"risk_score"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "username, email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.svc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// CreateCompany registers a company to monitor
func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req createCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.AccountRef == "" {
		http.Error(w, "name and account_ref are required", http.StatusBadRequest)
		return
	}

	company, err := h.svc.CreateCompany(r.Context(), req.Name, req.AlertEmail, req.AccountRef)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, company)
}

// ListCompanies returns the user's monitored companies
func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.svc.ListCompanies(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

// AddObligation stores a scheduled payroll run
func (h *Handler) AddObligation(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyIDFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req obligationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Amount < 0 {
		http.Error(w, "amount must not be negative", http.StatusBadRequest)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	obligation := &models.Obligation{
		CompanyID:     companyID,
		Amount:        req.Amount,
		Date:          date,
		Description:   req.Description,
		EmployeeCount: req.EmployeeCount,
	}
	if err := h.svc.AddObligation(r.Context(), obligation); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusCreated, obligation)
}

// AddInflow stores an expected incoming payment
func (h *Handler) AddInflow(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyIDFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req inflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Amount < 0 {
		http.Error(w, "amount must not be negative", http.StatusBadRequest)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	switch models.Confidence(req.Confidence) {
	case "", models.ConfidenceLow, models.ConfidenceMedium, models.ConfidenceHigh:
	default:
		http.Error(w, "confidence must be low, medium or high", http.StatusBadRequest)
		return
	}

	inflow := &models.Inflow{
		CompanyID:   companyID,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
		Confidence:  models.Confidence(req.Confidence),
	}
	if err := h.svc.AddInflow(r.Context(), inflow); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusCreated, inflow)
}

// RunAssessment triggers a fresh risk assessment
func (h *Handler) RunAssessment(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyIDFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	assessment, score, err := h.svc.TriggerAssessment(r.Context(), companyID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, assessmentResponse{Assessment: assessment, RiskScore: score})
}

// LatestAssessment returns the most recent stored assessment
func (h *Handler) LatestAssessment(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyIDFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	assessment, score, err := h.svc.LatestAssessment(r.Context(), companyID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, assessmentResponse{Assessment: assessment, RiskScore: score})
}

// RiskScore returns just the numeric risk score from the latest assessment
func (h *Handler) RiskScore(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyIDFromPath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, score, err := h.svc.LatestAssessment(r.Context(), companyID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"risk_score": score})
}

// Health reports service liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func companyIDFromPath(r *http.Request) (int64, error) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// parseDate accepts YYYY-MM-DD and rejects anything else. Bad dates are a
// hard 400 here so the engine never sees an unparseable date.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
