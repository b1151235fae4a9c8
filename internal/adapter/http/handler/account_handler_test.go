package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/econsim/clearing/internal/adapter/http/dto"
	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
)

type accountServiceStub struct {
	openFn  func(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error)
	closeFn func(ctx context.Context, accountID string) error
}

func (s *accountServiceStub) OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error) {
	return s.openFn(ctx, input)
}

func (s *accountServiceStub) CloseAccount(ctx context.Context, accountID string) error {
	return s.closeFn(ctx, accountID)
}

type accountRepoStub struct {
	getFn         func(ctx context.Context, id string) (*domain.Account, error)
	listByOwnerFn func(ctx context.Context, ownerID, currency string) ([]*domain.Account, error)
}

func (s *accountRepoStub) Create(ctx context.Context, account *domain.Account) error { return nil }

func (s *accountRepoStub) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *accountRepoStub) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error {
	return nil
}

func (s *accountRepoStub) Delete(ctx context.Context, id string) error { return nil }

func (s *accountRepoStub) List(ctx context.Context) ([]*domain.Account, error) { return nil, nil }

func (s *accountRepoStub) ListByBank(ctx context.Context, bankID string) ([]*domain.Account, error) {
	return nil, nil
}

func (s *accountRepoStub) ListByOwner(ctx context.Context, ownerID, currency string) ([]*domain.Account, error) {
	return s.listByOwnerFn(ctx, ownerID, currency)
}

func TestAccountHandler_Open_Success(t *testing.T) {
	account := &domain.Account{
		ID:       "acc-1",
		OwnerID:  "alice",
		BankID:   "bank-1",
		Currency: "USD",
		Balance:  decimal.Zero,
	}

	var captured usecase.OpenAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		openFn: func(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error) {
			captured = input
			return account, nil
		},
	}, &accountRepoStub{})

	body, _ := json.Marshal(dto.OpenAccountRequest{
		OwnerID:  "alice",
		BankID:   "bank-1",
		Currency: "USD",
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Open(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.OwnerID != "alice" || captured.BankID != "bank-1" || captured.Currency != "USD" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" {
		t.Fatalf("expected account ID acc-1, got %s", resp.ID)
	}
}

func TestAccountHandler_Open_InvalidJSON(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		openFn: func(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error) {
			t.Fatal("OpenAccount should not be called for invalid payload")
			return nil, nil
		},
	}, &accountRepoStub{})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Open(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Open_UnknownBank(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		openFn: func(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error) {
			return nil, domain.ErrBankNotFound
		},
	}, &accountRepoStub{})

	body, _ := json.Marshal(dto.OpenAccountRequest{OwnerID: "alice", BankID: "missing", Currency: "USD"})
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Open(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{}, &accountRepoStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil)
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_ListByOwner(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{}, &accountRepoStub{
		listByOwnerFn: func(ctx context.Context, ownerID, currency string) ([]*domain.Account, error) {
			if ownerID != "alice" || currency != "USD" {
				t.Fatalf("expected owner alice currency USD, got %s %s", ownerID, currency)
			}
			return []*domain.Account{{ID: "acc-1"}, {ID: "acc-2"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/owners/alice/accounts?currency=USD", nil)
	req = setChiURLParam(req, "ownerID", "alice")
	rec := httptest.NewRecorder()

	handler.ListByOwner(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(resp))
	}
}

func TestAccountHandler_Close(t *testing.T) {
	closed := ""
	handler := NewAccountHandler(&accountServiceStub{
		closeFn: func(ctx context.Context, accountID string) error {
			closed = accountID
			return nil
		},
	}, &accountRepoStub{})

	req := httptest.NewRequest(http.MethodDelete, "/accounts/acc-1", nil)
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Close(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if closed != "acc-1" {
		t.Fatalf("expected close of acc-1, got %q", closed)
	}
}

func TestAccountHandler_Close_NoTransactionsAccount(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		closeFn: func(ctx context.Context, accountID string) error {
			return domain.ErrNoTransactionsAccount
		},
	}, &accountRepoStub{})

	req := httptest.NewRequest(http.MethodDelete, "/accounts/acc-1", nil)
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Close(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}
