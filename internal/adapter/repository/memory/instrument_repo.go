package memory

import (
	"context"
	"sync"

	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
)

// InstrumentRepository implements usecase.InstrumentRepository in memory.
type InstrumentRepository struct {
	mu          sync.RWMutex
	instruments map[string]*domain.DebtInstrument
}

// NewInstrumentRepository creates a new InstrumentRepository.
func NewInstrumentRepository() *InstrumentRepository {
	return &InstrumentRepository{
		instruments: make(map[string]*domain.DebtInstrument),
	}
}

// Create stores a new instrument.
func (r *InstrumentRepository) Create(ctx context.Context, instrument *domain.DebtInstrument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *instrument
	r.instruments[instrument.ID] = &stored

	return nil
}

// Get returns a copy of the instrument.
func (r *InstrumentRepository) Get(ctx context.Context, id string) (*domain.DebtInstrument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instrument, ok := r.instruments[id]
	if !ok {
		return nil, domain.ErrInstrumentNotFound
	}
	cp := *instrument
	return &cp, nil
}

// ReassignHolder moves ownership of the instrument.
func (r *InstrumentRepository) ReassignHolder(ctx context.Context, id, holderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	instrument, ok := r.instruments[id]
	if !ok {
		return domain.ErrInstrumentNotFound
	}
	instrument.HolderID = holderID

	return nil
}

// ListByHolder returns copies of all instruments held by one party.
func (r *InstrumentRepository) ListByHolder(ctx context.Context, holderID string) ([]*domain.DebtInstrument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var instruments []*domain.DebtInstrument
	for _, instrument := range r.instruments {
		if instrument.HolderID == holderID {
			cp := *instrument
			instruments = append(instruments, &cp)
		}
	}

	return instruments, nil
}

var _ usecase.InstrumentRepository = (*InstrumentRepository)(nil)
