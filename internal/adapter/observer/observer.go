// Package observer provides implementations of the engine's observability
// collaborator. Observers are purely observational: they never block or
// veto the operation that emitted the event.
package observer

import (
	"context"

	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
)

// Noop discards all events.
type Noop struct{}

// NewNoop creates a Noop observer.
func NewNoop() Noop { return Noop{} }

func (Noop) OnTransfer(context.Context, domain.TransferEvent)    {}
func (Noop) OnPriceTick(context.Context, domain.PriceTick)       {}
func (Noop) OnBalanceSheet(context.Context, domain.BalanceSheet) {}
func (Noop) OnReserveTopUp(context.Context, domain.ReserveTopUp) {}

// Multi fans events out to several observers in order.
type Multi struct {
	observers []usecase.Observer
}

// NewMulti creates a Multi observer.
func NewMulti(observers ...usecase.Observer) *Multi {
	return &Multi{observers: observers}
}

func (m *Multi) OnTransfer(ctx context.Context, event domain.TransferEvent) {
	for _, o := range m.observers {
		o.OnTransfer(ctx, event)
	}
}

func (m *Multi) OnPriceTick(ctx context.Context, tick domain.PriceTick) {
	for _, o := range m.observers {
		o.OnPriceTick(ctx, tick)
	}
}

func (m *Multi) OnBalanceSheet(ctx context.Context, sheet domain.BalanceSheet) {
	for _, o := range m.observers {
		o.OnBalanceSheet(ctx, sheet)
	}
}

func (m *Multi) OnReserveTopUp(ctx context.Context, topUp domain.ReserveTopUp) {
	for _, o := range m.observers {
		o.OnReserveTopUp(ctx, topUp)
	}
}

var (
	_ usecase.Observer = Noop{}
	_ usecase.Observer = (*Multi)(nil)
)
