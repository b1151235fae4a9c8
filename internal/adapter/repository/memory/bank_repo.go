package memory

import (
	"context"
	"sync"

	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
)

// BankRepository implements usecase.BankRepository in memory.
type BankRepository struct {
	mu         sync.RWMutex
	banks      map[string]*domain.Bank
	byCurrency map[string]string // currency -> central bank ID
}

// NewBankRepository creates a new BankRepository.
func NewBankRepository() *BankRepository {
	return &BankRepository{
		banks:      make(map[string]*domain.Bank),
		byCurrency: make(map[string]string),
	}
}

func cloneBank(bank *domain.Bank) *domain.Bank {
	cp := *bank
	cp.TransitAccountIDs = cloneStringMap(bank.TransitAccountIDs)
	cp.ReserveAccountIDs = cloneStringMap(bank.ReserveAccountIDs)
	cp.OwnAccountIDs = cloneStringMap(bank.OwnAccountIDs)
	cp.Customers = cloneBoolMap(bank.Customers)
	return &cp
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func cloneBoolMap(m map[string]bool) map[string]bool {
	if m == nil {
		return nil
	}
	cp := make(map[string]bool, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

// Create stores a new bank. A central bank claims its currency; one central
// bank per currency is the clearing invariant.
func (r *BankRepository) Create(ctx context.Context, bank *domain.Bank) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bank.Kind == domain.BankKindCentral {
		if _, taken := r.byCurrency[bank.Currency]; taken {
			return domain.ErrInvalidCurrency
		}
		r.byCurrency[bank.Currency] = bank.ID
	}
	r.banks[bank.ID] = cloneBank(bank)

	return nil
}

// Get returns a copy of the bank.
func (r *BankRepository) Get(ctx context.Context, id string) (*domain.Bank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bank, ok := r.banks[id]
	if !ok {
		return nil, domain.ErrBankNotFound
	}

	return cloneBank(bank), nil
}

// Update replaces the stored bank.
func (r *BankRepository) Update(ctx context.Context, bank *domain.Bank) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.banks[bank.ID]; !ok {
		return domain.ErrBankNotFound
	}
	r.banks[bank.ID] = cloneBank(bank)

	return nil
}

// CentralBank returns the central bank for a currency.
func (r *BankRepository) CentralBank(ctx context.Context, currency string) (*domain.Bank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCurrency[currency]
	if !ok {
		return nil, domain.ErrCentralBankNotFound
	}

	return cloneBank(r.banks[id]), nil
}

// List returns copies of all banks.
func (r *BankRepository) List(ctx context.Context) ([]*domain.Bank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	banks := make([]*domain.Bank, 0, len(r.banks))
	for _, bank := range r.banks {
		banks = append(banks, cloneBank(bank))
	}

	return banks, nil
}

var _ usecase.BankRepository = (*BankRepository)(nil)
