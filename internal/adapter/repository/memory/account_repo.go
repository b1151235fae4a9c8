package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository in memory. It is
// the arena of accounts: the stored record is the single source of truth
// for a balance, and callers only ever see copies.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Create stores a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *account
	r.accounts[account.ID] = &stored

	return nil
}

// Get returns a copy of the account.
func (r *AccountRepository) Get(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

// UpdateBalance sets the account balance.
func (r *AccountRepository) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.Balance = balance
	account.UpdatedAt = updatedAt

	return nil
}

// Delete removes the account.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, id)

	return nil
}

// List returns copies of all accounts.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		cp := *account
		accounts = append(accounts, &cp)
	}

	return accounts, nil
}

// ListByBank returns copies of all accounts managed by one bank.
func (r *AccountRepository) ListByBank(ctx context.Context, bankID string) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var accounts []*domain.Account
	for _, account := range r.accounts {
		if account.BankID == bankID {
			cp := *account
			accounts = append(accounts, &cp)
		}
	}

	return accounts, nil
}

// ListByOwner returns copies of all accounts of one owner; currency ""
// matches all.
func (r *AccountRepository) ListByOwner(ctx context.Context, ownerID, currency string) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var accounts []*domain.Account
	for _, account := range r.accounts {
		if account.OwnerID != ownerID {
			continue
		}
		if currency != "" && account.Currency != currency {
			continue
		}
		cp := *account
		accounts = append(accounts, &cp)
	}

	return accounts, nil
}

var _ usecase.AccountRepository = (*AccountRepository)(nil)
