package mocks

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/econsim/clearing/internal/domain"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc        func(ctx context.Context, account *domain.Account) error
	GetFunc           func(ctx context.Context, id string) (*domain.Account, error)
	UpdateBalanceFunc func(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error
	DeleteFunc        func(ctx context.Context, id string) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *account
	m.accounts[account.ID] = &clone
	return nil
}

func (m *MockAccountRepository) Get(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		clone := *acc
		return &clone, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = balance
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(m.accounts, id)
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		clone := *acc
		accounts = append(accounts, &clone)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (m *MockAccountRepository) ListByBank(ctx context.Context, bankID string) ([]*domain.Account, error) {
	all, _ := m.List(ctx)
	var out []*domain.Account
	for _, acc := range all {
		if acc.BankID == bankID {
			out = append(out, acc)
		}
	}
	return out, nil
}

func (m *MockAccountRepository) ListByOwner(ctx context.Context, ownerID, currency string) ([]*domain.Account, error) {
	all, _ := m.List(ctx)
	var out []*domain.Account
	for _, acc := range all {
		if acc.OwnerID == ownerID && (currency == "" || acc.Currency == currency) {
			out = append(out, acc)
		}
	}
	return out, nil
}

// MockBankRepository is a mock implementation of BankRepository.
type MockBankRepository struct {
	mu    sync.RWMutex
	banks map[string]*domain.Bank

	GetFunc         func(ctx context.Context, id string) (*domain.Bank, error)
	CentralBankFunc func(ctx context.Context, currency string) (*domain.Bank, error)
}

func NewMockBankRepository() *MockBankRepository {
	return &MockBankRepository{
		banks: make(map[string]*domain.Bank),
	}
}

func (m *MockBankRepository) Create(ctx context.Context, bank *domain.Bank) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.banks[bank.ID] = bank
	return nil
}

func (m *MockBankRepository) Get(ctx context.Context, id string) (*domain.Bank, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if bank, ok := m.banks[id]; ok {
		return bank, nil
	}
	return nil, domain.ErrBankNotFound
}

func (m *MockBankRepository) Update(ctx context.Context, bank *domain.Bank) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.banks[bank.ID]; !ok {
		return domain.ErrBankNotFound
	}
	m.banks[bank.ID] = bank
	return nil
}

func (m *MockBankRepository) CentralBank(ctx context.Context, currency string) (*domain.Bank, error) {
	if m.CentralBankFunc != nil {
		return m.CentralBankFunc(ctx, currency)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, bank := range m.banks {
		if bank.Kind == domain.BankKindCentral && bank.Currency == currency {
			return bank, nil
		}
	}
	return nil, domain.ErrCentralBankNotFound
}

func (m *MockBankRepository) List(ctx context.Context) ([]*domain.Bank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	banks := make([]*domain.Bank, 0, len(m.banks))
	for _, bank := range m.banks {
		banks = append(banks, bank)
	}
	sort.Slice(banks, func(i, j int) bool { return banks[i].ID < banks[j].ID })
	return banks, nil
}

// MockOrderRepository is a mock implementation of OrderRepository. Books are
// re-sorted by (price, seq) on every ascent, which is plenty for tests.
type MockOrderRepository struct {
	mu      sync.RWMutex
	orders  map[string]*domain.Order
	nextSeq uint64
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

func (m *MockOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSeq++
	order.Seq = m.nextSeq
	clone := *order
	m.orders[order.ID] = &clone
	return nil
}

func (m *MockOrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.orders[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, domain.ErrOrderNotFound
}

func (m *MockOrderRepository) UpdateAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Amount = amount
	return nil
}

func (m *MockOrderRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *MockOrderRepository) AscendPrice(ctx context.Context, currency string, commodity domain.Commodity, fn func(*domain.Order) bool) error {
	m.mu.RLock()
	var book []*domain.Order
	for _, o := range m.orders {
		if o.Currency == currency && o.Commodity == commodity {
			clone := *o
			book = append(book, &clone)
		}
	}
	m.mu.RUnlock()

	sort.Slice(book, func(i, j int) bool {
		if c := book[i].Price.Cmp(book[j].Price); c != 0 {
			return c < 0
		}
		return book[i].Seq < book[j].Seq
	})
	for _, o := range book {
		if !fn(o) {
			break
		}
	}
	return nil
}

func (m *MockOrderRepository) DeleteByOfferor(ctx context.Context, offerorID string, currency string, commodity *domain.Commodity) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, o := range m.orders {
		if o.OfferorID != offerorID {
			continue
		}
		if currency != "" && o.Currency != currency {
			continue
		}
		if commodity != nil && o.Commodity != *commodity {
			continue
		}
		delete(m.orders, id)
		removed++
	}
	return removed, nil
}

func (m *MockOrderRepository) AmountSum(ctx context.Context, currency string, commodity domain.Commodity) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := m.AscendPrice(ctx, currency, commodity, func(o *domain.Order) bool {
		sum = sum.Add(o.Amount)
		return true
	})
	return sum, err
}

// MockInstrumentRepository is a mock implementation of InstrumentRepository.
type MockInstrumentRepository struct {
	mu          sync.RWMutex
	instruments map[string]*domain.DebtInstrument
}

func NewMockInstrumentRepository() *MockInstrumentRepository {
	return &MockInstrumentRepository{
		instruments: make(map[string]*domain.DebtInstrument),
	}
}

func (m *MockInstrumentRepository) Create(ctx context.Context, instrument *domain.DebtInstrument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *instrument
	m.instruments[instrument.ID] = &clone
	return nil
}

func (m *MockInstrumentRepository) Get(ctx context.Context, id string) (*domain.DebtInstrument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if in, ok := m.instruments[id]; ok {
		clone := *in
		return &clone, nil
	}
	return nil, domain.ErrInstrumentNotFound
}

func (m *MockInstrumentRepository) ReassignHolder(ctx context.Context, id, holderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.instruments[id]
	if !ok {
		return domain.ErrInstrumentNotFound
	}
	in.HolderID = holderID
	return nil
}

func (m *MockInstrumentRepository) ListByHolder(ctx context.Context, holderID string) ([]*domain.DebtInstrument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.DebtInstrument
	for _, in := range m.instruments {
		if in.HolderID == holderID {
			clone := *in
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockInventoryRepository is a mock implementation of InventoryRepository.
type MockInventoryRepository struct {
	mu       sync.RWMutex
	holdings map[string]decimal.Decimal
}

func NewMockInventoryRepository() *MockInventoryRepository {
	return &MockInventoryRepository{
		holdings: make(map[string]decimal.Decimal),
	}
}

func holdingKey(partyID, goodType string) string {
	return partyID + "/" + goodType
}

func (m *MockInventoryRepository) Balance(ctx context.Context, partyID, goodType string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.holdings[holdingKey(partyID, goodType)], nil
}

func (m *MockInventoryRepository) Add(ctx context.Context, partyID, goodType string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := holdingKey(partyID, goodType)
	m.holdings[key] = m.holdings[key].Add(amount)
	return nil
}

func (m *MockInventoryRepository) Move(ctx context.Context, fromPartyID, toPartyID, goodType string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fromKey := holdingKey(fromPartyID, goodType)
	if m.holdings[fromKey].LessThan(amount) {
		return domain.ErrInsufficientInventory
	}
	toKey := holdingKey(toPartyID, goodType)
	m.holdings[fromKey] = m.holdings[fromKey].Sub(amount)
	m.holdings[toKey] = m.holdings[toKey].Add(amount)
	return nil
}

// MockParticipantRegistry is a mock implementation of ParticipantRegistry.
type MockParticipantRegistry struct {
	mu            sync.Mutex
	Notifications []string

	OnMarketSettlementFunc func(ctx context.Context, partyID string, commodity domain.Commodity, amount, price decimal.Decimal, currency string) error
}

func NewMockParticipantRegistry() *MockParticipantRegistry {
	return &MockParticipantRegistry{}
}

func (m *MockParticipantRegistry) OnMarketSettlement(ctx context.Context, partyID string, commodity domain.Commodity, amount, price decimal.Decimal, currency string) error {
	if m.OnMarketSettlementFunc != nil {
		return m.OnMarketSettlementFunc(ctx, partyID, commodity, amount, price, currency)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, partyID)
	return nil
}

// MockObserver records every event it receives.
type MockObserver struct {
	mu            sync.Mutex
	Transfers     []domain.TransferEvent
	PriceTicks    []domain.PriceTick
	BalanceSheets []domain.BalanceSheet
	ReserveTopUps []domain.ReserveTopUp
}

func NewMockObserver() *MockObserver {
	return &MockObserver{}
}

func (m *MockObserver) OnTransfer(ctx context.Context, event domain.TransferEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transfers = append(m.Transfers, event)
}

func (m *MockObserver) OnPriceTick(ctx context.Context, tick domain.PriceTick) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PriceTicks = append(m.PriceTicks, tick)
}

func (m *MockObserver) OnBalanceSheet(ctx context.Context, sheet domain.BalanceSheet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BalanceSheets = append(m.BalanceSheets, sheet)
}

func (m *MockObserver) OnReserveTopUp(ctx context.Context, topUp domain.ReserveTopUp) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReserveTopUps = append(m.ReserveTopUps, topUp)
}

// MockIDGenerator generates sequential IDs for deterministic tests.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "id-" + strconv.Itoa(m.counter)
}
