package banking

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ChiefVishPat/payroll-sentinel/internal/config"
	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

const maxAttempts = 3

// Client handles integration with the banking aggregation provider. The
// provider serves OFX-style XML account statements.
type Client struct {
	url    string
	token  string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new banking client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url:   cfg.BankingURL,
		token: cfg.BankingToken,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetchStatement retrieves the raw XML statement for an account, retrying
// transient failures with linear backoff.
func (c *Client) fetchStatement(ctx context.Context, accountRef string) ([]byte, error) {
	url := fmt.Sprintf("%s/v1/accounts/%s/statement", c.url, accountRef)

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
		req.Header.Set("Accept", "application/x-ofx")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, lastErr
			}
			continue
		}

		// Log the raw XML response for debugging
		c.log.Debugf("Banking XML response: %s", string(body))
		return body, nil
	}
	return nil, fmt.Errorf("statement fetch failed after %d attempts: %w", maxAttempts, lastErr)
}

// parseBalance extracts the ledger balance from an OFX statement
func (c *Client) parseBalance(rawBody []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %w", err)
	}

	balElement := doc.FindElement("//LEDGERBAL/BALAMT")
	if balElement == nil {
		return 0, fmt.Errorf("no ledger balance found in statement")
	}

	balance, err := strconv.ParseFloat(balElement.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse balance %q: %w", balElement.Text(), err)
	}
	return balance, nil
}

// CurrentBalance retrieves the current ledger balance for an account
func (c *Client) CurrentBalance(ctx context.Context, accountRef string) (float64, error) {
	body, err := c.fetchStatement(ctx, accountRef)
	if err != nil {
		return 0, err
	}

	balance, err := c.parseBalance(body)
	if err != nil {
		return 0, err
	}

	c.log.Infof("Retrieved balance for account %s: %.2f", accountRef, balance)
	return balance, nil
}
