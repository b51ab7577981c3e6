package payroll

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/ChiefVishPat/payroll-sentinel/internal/config"
	"github.com/ChiefVishPat/payroll-sentinel/internal/models"
	"github.com/sirupsen/logrus"
)

const maxAttempts = 3

// Client handles integration with the payroll processing provider
type Client struct {
	url    string
	token  string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new payroll client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url:   cfg.PayrollURL,
		token: cfg.PayrollToken,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// payrollRun is the provider's wire format for a scheduled run
type payrollRun struct {
	Amount        float64 `json:"amount"`
	PayDate       string  `json:"pay_date"` // YYYY-MM-DD
	Description   string  `json:"description"`
	EmployeeCount int     `json:"employee_count"`
}

type runsResponse struct {
	Runs []payrollRun `json:"runs"`
}

// UpcomingRuns retrieves the scheduled payroll runs for an account, sorted
// ascending by pay date so the first run is always the soonest.
func (c *Client) UpcomingRuns(ctx context.Context, accountRef string) ([]models.Obligation, error) {
	url := fmt.Sprintf("%s/v1/companies/%s/payroll-runs", c.url, accountRef)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt-1) * 500 * time.Millisecond):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		var payload runsResponse
		err = json.NewDecoder(resp.Body).Decode(&payload)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, lastErr
			}
			continue
		}
		if err != nil {
			lastErr = fmt.Errorf("failed to decode response: %w", err)
			continue
		}

		obligations, err := c.toObligations(payload.Runs)
		if err != nil {
			return nil, err
		}
		c.log.Infof("Retrieved %d payroll runs for account %s", len(obligations), accountRef)
		return obligations, nil
	}
	return nil, fmt.Errorf("payroll runs fetch failed after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) toObligations(runs []payrollRun) ([]models.Obligation, error) {
	obligations := make([]models.Obligation, 0, len(runs))
	for _, run := range runs {
		date, err := time.Parse("2006-01-02", run.PayDate)
		if err != nil {
			return nil, fmt.Errorf("invalid pay date %q: %w", run.PayDate, err)
		}
		obligations = append(obligations, models.Obligation{
			Amount:        run.Amount,
			Date:          date,
			Description:   run.Description,
			EmployeeCount: run.EmployeeCount,
		})
	}
	sort.SliceStable(obligations, func(i, j int) bool {
		return obligations[i].Date.Before(obligations[j].Date)
	})
	return obligations, nil
}
