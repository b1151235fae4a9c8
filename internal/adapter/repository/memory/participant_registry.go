package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
)

// SettlementCallback is an offeror's post-trade hook.
type SettlementCallback func(ctx context.Context, commodity domain.Commodity, amount, price decimal.Decimal, currency string) error

// ParticipantRegistry implements usecase.ParticipantRegistry in memory.
// Agents register a callback; unregistered offerors are silently skipped.
type ParticipantRegistry struct {
	mu        sync.RWMutex
	callbacks map[string]SettlementCallback
}

// NewParticipantRegistry creates a new ParticipantRegistry.
func NewParticipantRegistry() *ParticipantRegistry {
	return &ParticipantRegistry{
		callbacks: make(map[string]SettlementCallback),
	}
}

// Register installs a party's settlement callback.
func (r *ParticipantRegistry) Register(partyID string, cb SettlementCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks[partyID] = cb
}

// Unregister removes a party's settlement callback.
func (r *ParticipantRegistry) Unregister(partyID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.callbacks, partyID)
}

// OnMarketSettlement invokes the party's callback, if any.
func (r *ParticipantRegistry) OnMarketSettlement(ctx context.Context, partyID string, commodity domain.Commodity, amount, price decimal.Decimal, currency string) error {
	r.mu.RLock()
	cb := r.callbacks[partyID]
	r.mu.RUnlock()

	if cb == nil {
		return nil
	}
	return cb(ctx, commodity, amount, price, currency)
}

var _ usecase.ParticipantRegistry = (*ParticipantRegistry)(nil)
