package banking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ChiefVishPat/payroll-sentinel/internal/config"
	"github.com/sirupsen/logrus"
)

const statementXML = `<OFX>
	<BANKMSGSRSV1>
		<STMTTRNRS>
			<STMTRS>
				<LEDGERBAL>
					<BALAMT>24500.75</BALAMT>
					<DTASOF>20240110</DTASOF>
				</LEDGERBAL>
			</STMTRS>
		</STMTTRNRS>
	</BANKMSGSRSV1>
</OFX>`

func testClient(url string) *Client {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewClient(&config.Config{BankingURL: url, BankingToken: "tok"}, logger)
}

func TestCurrentBalance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/accounts/acct-1/statement" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(statementXML))
	}))
	defer server.Close()

	balance, err := testClient(server.URL).CurrentBalance(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 24500.75 {
		t.Errorf("expected 24500.75, got %f", balance)
	}
}

func TestCurrentBalance_RetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(statementXML))
	}))
	defer server.Close()

	balance, err := testClient(server.URL).CurrentBalance(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if balance != 24500.75 {
		t.Errorf("expected 24500.75, got %f", balance)
	}
}

func TestCurrentBalance_ClientErrorFailsFast(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := testClient(server.URL).CurrentBalance(context.Background(), "acct-1"); err == nil {
		t.Fatal("expected error for 404 response")
	}
	if attempts != 1 {
		t.Errorf("expected no retries on 4xx, got %d attempts", attempts)
	}
}

func TestCurrentBalance_MissingBalanceElement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<OFX></OFX>"))
	}))
	defer server.Close()

	if _, err := testClient(server.URL).CurrentBalance(context.Background(), "acct-1"); err == nil {
		t.Fatal("expected error for statement without a ledger balance")
	}
}
