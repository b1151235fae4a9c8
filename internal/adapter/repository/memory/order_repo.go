package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"

	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
)

type bookKey struct {
	currency  string
	commodity domain.Commodity
}

// OrderRepository implements usecase.OrderRepository in memory. Each
// (currency, commodity) book is a btree keyed by (price, seq), so
// iteration is cheapest-first with insertion order breaking price ties.
type OrderRepository struct {
	mu      sync.RWMutex
	books   map[bookKey]*btree.BTreeG[*domain.Order]
	byID    map[string]*domain.Order
	nextSeq uint64
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		books: make(map[bookKey]*btree.BTreeG[*domain.Order]),
		byID:  make(map[string]*domain.Order),
	}
}

func orderLess(a, b *domain.Order) bool {
	if !a.Price.Equal(b.Price) {
		return a.Price.LessThan(b.Price)
	}
	return a.Seq < b.Seq
}

func (r *OrderRepository) book(key bookKey) *btree.BTreeG[*domain.Order] {
	b, ok := r.books[key]
	if !ok {
		b = btree.NewBTreeG(orderLess)
		r.books[key] = b
	}
	return b
}

// Insert assigns the order's sequence number and adds it to its book.
func (r *OrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSeq++
	order.Seq = r.nextSeq

	stored := *order
	r.byID[order.ID] = &stored
	r.book(bookKey{order.Currency, order.Commodity}).Set(&stored)

	return nil
}

// Get returns a copy of the order.
func (r *OrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

// UpdateAmount sets the order's remaining amount. The book position is
// unchanged: price and sequence stay fixed over the order's lifetime.
func (r *OrderRepository) UpdateAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.byID[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.Amount = amount

	return nil
}

// Delete removes the order from its book.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.byID[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.byID, id)
	r.book(bookKey{order.Currency, order.Commodity}).Delete(order)

	return nil
}

// AscendPrice visits the book cheapest-first. Orders are handed out as
// copies; mutation goes through UpdateAmount and Delete.
func (r *OrderRepository) AscendPrice(ctx context.Context, currency string, commodity domain.Commodity, fn func(*domain.Order) bool) error {
	r.mu.RLock()
	b, ok := r.books[bookKey{currency, commodity}]
	if !ok {
		r.mu.RUnlock()
		return nil
	}
	// Snapshot under the read lock so callers may mutate the book while
	// consuming the iteration, matcher-then-executor style.
	orders := make([]*domain.Order, 0, b.Len())
	b.Scan(func(o *domain.Order) bool {
		cp := *o
		orders = append(orders, &cp)
		return true
	})
	r.mu.RUnlock()

	for _, o := range orders {
		if !fn(o) {
			break
		}
	}

	return nil
}

// DeleteByOfferor removes all orders of one offeror, optionally narrowed to
// a currency and/or commodity.
func (r *OrderRepository) DeleteByOfferor(ctx context.Context, offerorID string, currency string, commodity *domain.Commodity) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, order := range r.byID {
		if order.OfferorID != offerorID {
			continue
		}
		if currency != "" && order.Currency != currency {
			continue
		}
		if commodity != nil && order.Commodity != *commodity {
			continue
		}
		delete(r.byID, id)
		r.book(bookKey{order.Currency, order.Commodity}).Delete(order)
		removed++
	}

	return removed, nil
}

// AmountSum returns the total amount on offer in one book.
func (r *OrderRepository) AmountSum(ctx context.Context, currency string, commodity domain.Commodity) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sum := decimal.Zero
	if b, ok := r.books[bookKey{currency, commodity}]; ok {
		b.Scan(func(o *domain.Order) bool {
			sum = sum.Add(o.Amount)
			return true
		})
	}

	return sum, nil
}

var _ usecase.OrderRepository = (*OrderRepository)(nil)
