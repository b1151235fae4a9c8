package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
)

type holdingKey struct {
	partyID  string
	goodType string
}

// InventoryRepository implements usecase.InventoryRepository in memory.
type InventoryRepository struct {
	mu       sync.RWMutex
	holdings map[holdingKey]decimal.Decimal
}

// NewInventoryRepository creates a new InventoryRepository.
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		holdings: make(map[holdingKey]decimal.Decimal),
	}
}

// Balance returns the amount of one good a party holds.
func (r *InventoryRepository) Balance(ctx context.Context, partyID, goodType string) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.holdings[holdingKey{partyID, goodType}], nil
}

// Add credits a party's holding. Production and initial endowments enter
// here; trade only moves.
func (r *InventoryRepository) Add(ctx context.Context, partyID, goodType string, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := holdingKey{partyID, goodType}
	r.holdings[key] = r.holdings[key].Add(amount)

	return nil
}

// Move transfers goods between parties.
func (r *InventoryRepository) Move(ctx context.Context, fromPartyID, toPartyID, goodType string, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fromKey := holdingKey{fromPartyID, goodType}
	if r.holdings[fromKey].LessThan(amount) {
		return domain.ErrInsufficientInventory
	}

	toKey := holdingKey{toPartyID, goodType}
	r.holdings[fromKey] = r.holdings[fromKey].Sub(amount)
	r.holdings[toKey] = r.holdings[toKey].Add(amount)

	return nil
}

var _ usecase.InventoryRepository = (*InventoryRepository)(nil)
