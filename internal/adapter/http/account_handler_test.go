package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"p2p-loan-escrow/internal/adapter/middleware"
	"p2p-loan-escrow/internal/auth"
	ledgerDomain "p2p-loan-escrow/internal/domain/ledger"
	"p2p-loan-escrow/internal/testutil/ledgermock"
	"p2p-loan-escrow/internal/usecase/account"

	"github.com/labstack/echo/v4"
)

var testTokens = auth.NewTokenManager("test-secret", 5)

func accountCtx(e *echo.Echo, method, path, id, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("account_id")
		c.SetParamValues(id)
	}
	return c, rec
}

func TestOpenAccount(t *testing.T) {
	e := newEchoWithValidator()
	h := NewAccountHandler(account.NewUsecase(&ledgermock.Repo{}, nil), testTokens)

	c, rec := accountCtx(e, stdhttp.MethodPost, "/accounts", "", `{"initial_balance":250}`)
	if err := h.OpenAccount(c); err != nil {
		t.Fatalf("OpenAccount error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var got account.AccountDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(got.AccountID) != 32 || got.Balance != 250 {
		t.Fatalf("unexpected dto: %+v", got)
	}
	var tok tokenResp
	_ = json.Unmarshal(rec.Body.Bytes(), &tok)
	if sub, err := testTokens.Parse(tok.AccessToken); err != nil || sub != got.AccountID {
		t.Fatalf("token subject = %q, %v; want %s", sub, err, got.AccountID)
	}

	c, rec = accountCtx(e, stdhttp.MethodPost, "/accounts", "", `{"initial_balance":-1}`)
	_ = h.OpenAccount(c)
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("negative balance: status = %d, want 422", rec.Code)
	}
}

func TestDeposit_ErrorMapping(t *testing.T) {
	known := strings.Repeat("a", 32)
	repo := &ledgermock.Repo{
		CreditFn: func(_ context.Context, id string, _ int64) error {
			if id != known {
				return ledgerDomain.ErrAccountNotFound
			}
			return nil
		},
		GetByAccountIDFn: func(_ context.Context, id string) (*ledgerDomain.Account, error) {
			return &ledgerDomain.Account{AccountID: id, Balance: 77}, nil
		},
	}
	h := NewAccountHandler(account.NewUsecase(repo, nil), testTokens)
	e := newEchoWithValidator()

	tests := []struct {
		name   string
		id     string
		body   string
		status int
	}{
		{"ok", known, `{"amount":77}`, stdhttp.StatusOK},
		{"zero", known, `{"amount":0}`, stdhttp.StatusUnprocessableEntity},
		{"broken", known, `{"amount":`, stdhttp.StatusBadRequest},
		{"unknown", strings.Repeat("f", 32), `{"amount":5}`, stdhttp.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := accountCtx(e, stdhttp.MethodPost, "/accounts/"+tt.id+"/deposits", tt.id, tt.body)
			if err := h.Deposit(c); err != nil {
				t.Fatalf("Deposit error: %v", err)
			}
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d; body=%s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestGetAccount_And_Entries(t *testing.T) {
	known := strings.Repeat("a", 32)
	repo := &ledgermock.Repo{
		GetByAccountIDFn: func(_ context.Context, id string) (*ledgerDomain.Account, error) {
			if id != known {
				return nil, ledgerDomain.ErrAccountNotFound
			}
			return &ledgerDomain.Account{AccountID: id, Balance: 9}, nil
		},
		ListEntriesFn: func(context.Context, string) ([]ledgerDomain.Entry, error) {
			return []ledgerDomain.Entry{{EntryID: "e1", FromAccount: known, ToAccount: "x", Amount: 1}}, nil
		},
	}
	h := NewAccountHandler(account.NewUsecase(repo, nil), testTokens)
	e := newEchoWithValidator()

	c, rec := accountCtx(e, stdhttp.MethodGet, "/accounts/"+known, known, "")
	if err := h.GetAccount(c); err != nil || rec.Code != stdhttp.StatusOK {
		t.Fatalf("GetAccount: err=%v status=%d", err, rec.Code)
	}

	c, rec = accountCtx(e, stdhttp.MethodGet, "/accounts/nope", "nope", "")
	_ = h.GetAccount(c)
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("missing account: status = %d, want 404", rec.Code)
	}

	c, rec = accountCtx(e, stdhttp.MethodGet, "/accounts/"+known+"/entries", known, "")
	if err := h.ListEntries(c); err != nil || rec.Code != stdhttp.StatusOK {
		t.Fatalf("ListEntries: err=%v status=%d", err, rec.Code)
	}
	var body struct {
		Entries []account.EntryDTO `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(body.Entries) != 1 || body.Entries[0].EntryID != "e1" {
		t.Fatalf("unexpected entries: %+v", body.Entries)
	}
}

func TestIssueToken(t *testing.T) {
	known := strings.Repeat("a", 32)
	other := strings.Repeat("b", 32)
	repo := &ledgermock.Repo{
		GetByAccountIDFn: func(_ context.Context, id string) (*ledgerDomain.Account, error) {
			if id != known && id != other {
				return nil, ledgerDomain.ErrAccountNotFound
			}
			return &ledgerDomain.Account{AccountID: id}, nil
		},
	}
	h := NewAccountHandler(account.NewUsecase(repo, nil), testTokens)
	e := newEchoWithValidator()

	tests := []struct {
		name   string
		caller string
		path   string
		status int
	}{
		{"own account", known, known, stdhttp.StatusOK},
		{"anonymous", "", known, stdhttp.StatusUnauthorized},
		{"someone else", other, known, stdhttp.StatusForbidden},
		{"unknown account", strings.Repeat("f", 32), strings.Repeat("f", 32), stdhttp.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := accountCtx(e, stdhttp.MethodPost, "/accounts/"+tt.path+"/tokens", tt.path, "")
			if tt.caller != "" {
				middleware.WithCaller(c, tt.caller)
			}
			if err := h.IssueToken(c); err != nil {
				t.Fatalf("IssueToken error: %v", err)
			}
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d; body=%s", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status != stdhttp.StatusOK {
				return
			}
			var tok tokenResp
			if err := json.Unmarshal(rec.Body.Bytes(), &tok); err != nil {
				t.Fatalf("bad json: %v", err)
			}
			if sub, err := testTokens.Parse(tok.AccessToken); err != nil || sub != tt.caller {
				t.Fatalf("token subject = %q, %v", sub, err)
			}
		})
	}
}
