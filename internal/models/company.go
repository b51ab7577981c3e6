package models

import "time"

// Company represents a monitored company
type Company struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Name       string    `json:"name"`
	AlertEmail string    `json:"alert_email"`
	AccountRef string    `json:"account_ref"` // identifier at the banking provider
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
