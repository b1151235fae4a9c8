package memory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econsim/clearing/internal/adapter/repository/memory"
	"github.com/econsim/clearing/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newOrder(id, offeror, currency, good, amount, price string) *domain.Order {
	return &domain.Order{
		ID:                  id,
		OfferorID:           offeror,
		Currency:            currency,
		Commodity:           domain.GoodCommodity(good),
		Amount:              dec(amount),
		Price:               dec(price),
		SettlementAccountID: "settle-" + offeror,
	}
}

func ascend(t *testing.T, repo *memory.OrderRepository, currency, good string) []string {
	t.Helper()
	var ids []string
	err := repo.AscendPrice(context.Background(), currency, domain.GoodCommodity(good), func(o *domain.Order) bool {
		ids = append(ids, o.ID)
		return true
	})
	require.NoError(t, err)
	return ids
}

func TestOrderRepository_AscendPriceOrdersByPriceThenSeq(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newOrder("expensive", "a", "USD", "grain", "5", "2.00")))
	require.NoError(t, repo.Insert(ctx, newOrder("cheap-late", "b", "USD", "grain", "5", "1.00")))
	require.NoError(t, repo.Insert(ctx, newOrder("cheap-later", "c", "USD", "grain", "5", "1.0")))

	// Equal prices fill in insertion order even with different exponents.
	assert.Equal(t, []string{"cheap-late", "cheap-later", "expensive"}, ascend(t, repo, "USD", "grain"))
}

func TestOrderRepository_BooksAreIsolated(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newOrder("o1", "a", "USD", "grain", "5", "1.00")))
	require.NoError(t, repo.Insert(ctx, newOrder("o2", "a", "EUR", "grain", "5", "1.00")))
	require.NoError(t, repo.Insert(ctx, newOrder("o3", "a", "USD", "iron", "5", "1.00")))

	assert.Equal(t, []string{"o1"}, ascend(t, repo, "USD", "grain"))
	assert.Equal(t, []string{"o2"}, ascend(t, repo, "EUR", "grain"))
	assert.Equal(t, []string{"o3"}, ascend(t, repo, "USD", "iron"))
}

func TestOrderRepository_AscendHandsOutCopies(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newOrder("o1", "a", "USD", "grain", "5", "1.00")))

	err := repo.AscendPrice(ctx, "USD", domain.GoodCommodity("grain"), func(o *domain.Order) bool {
		o.Amount = dec("999")
		return true
	})
	require.NoError(t, err)

	stored, err := repo.Get(ctx, "o1")
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(dec("5")), "iteration must not mutate the book")
}

func TestOrderRepository_MutateDuringIteration(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newOrder("o1", "a", "USD", "grain", "5", "1.00")))
	require.NoError(t, repo.Insert(ctx, newOrder("o2", "b", "USD", "grain", "5", "2.00")))

	// Deleting while iterating must not deadlock or skip.
	var visited []string
	err := repo.AscendPrice(ctx, "USD", domain.GoodCommodity("grain"), func(o *domain.Order) bool {
		visited = append(visited, o.ID)
		return repo.Delete(ctx, o.ID) == nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"o1", "o2"}, visited)

	sum, err := repo.AmountSum(ctx, "USD", domain.GoodCommodity("grain"))
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestOrderRepository_UpdateAmountKeepsPosition(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newOrder("o1", "a", "USD", "grain", "10", "1.00")))
	require.NoError(t, repo.Insert(ctx, newOrder("o2", "b", "USD", "grain", "10", "1.00")))

	require.NoError(t, repo.UpdateAmount(ctx, "o1", dec("3")))

	assert.Equal(t, []string{"o1", "o2"}, ascend(t, repo, "USD", "grain"))
	sum, err := repo.AmountSum(ctx, "USD", domain.GoodCommodity("grain"))
	require.NoError(t, err)
	assert.True(t, sum.Equal(dec("13")))
}

func TestOrderRepository_DeleteByOfferor(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newOrder("o1", "a", "USD", "grain", "5", "1.00")))
	require.NoError(t, repo.Insert(ctx, newOrder("o2", "a", "USD", "iron", "5", "1.00")))
	require.NoError(t, repo.Insert(ctx, newOrder("o3", "b", "USD", "grain", "5", "1.00")))

	grain := domain.GoodCommodity("grain")
	removed, err := repo.DeleteByOfferor(ctx, "a", "USD", &grain)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = repo.DeleteByOfferor(ctx, "a", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	// Nothing of offeror a left; b's order survives.
	removed, err = repo.DeleteByOfferor(ctx, "a", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.Equal(t, []string{"o3"}, ascend(t, repo, "USD", "grain"))
}

func TestOrderRepository_GetUnknown(t *testing.T) {
	repo := memory.NewOrderRepository()

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
