package models

import "time"

// Confidence describes how certain an expected inflow is
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Obligation represents a scheduled payroll disbursement
type Obligation struct {
	ID            int64     `json:"id,omitempty"`
	CompanyID     int64     `json:"company_id,omitempty"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	Description   string    `json:"description,omitempty"`
	EmployeeCount int       `json:"employee_count,omitempty"`
}

// Inflow represents an expected incoming payment
type Inflow struct {
	ID          int64      `json:"id,omitempty"`
	CompanyID   int64      `json:"company_id,omitempty"`
	Amount      float64    `json:"amount"`
	Date        time.Time  `json:"date"`
	Description string     `json:"description,omitempty"`
	Confidence  Confidence `json:"confidence,omitempty"`
}
