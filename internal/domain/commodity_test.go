package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econsim/clearing/internal/domain"
)

func TestParseCommodity(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Commodity
		wantErr bool
	}{
		{in: "good:grain", want: domain.GoodCommodity("grain")},
		{in: "currency:EUR", want: domain.CurrencyCommodity("EUR")},
		{in: "instrument:reserve-bond", want: domain.InstrumentCommodity("reserve-bond")},
		{in: "grain", wantErr: true},
		{in: "stock:ACME", wantErr: true},
		{in: "good:", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseCommodity(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestOrder_Validate(t *testing.T) {
	base := func() *domain.Order {
		return &domain.Order{
			ID:                  "ord-1",
			OfferorID:           "farmer-1",
			Currency:            "USD",
			Commodity:           domain.GoodCommodity("grain"),
			Amount:              dec("10"),
			Price:               dec("1.50"),
			SettlementAccountID: "acc-1",
		}
	}

	t.Run("valid good order", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})
	t.Run("zero amount", func(t *testing.T) {
		o := base()
		o.Amount = dec("0")
		assert.ErrorIs(t, o.Validate(), domain.ErrInvalidOrder)
	})
	t.Run("negative price", func(t *testing.T) {
		o := base()
		o.Price = dec("-1")
		assert.ErrorIs(t, o.Validate(), domain.ErrInvalidOrder)
	})
	t.Run("zero price is allowed", func(t *testing.T) {
		o := base()
		o.Price = dec("0")
		assert.NoError(t, o.Validate())
	})
	t.Run("fx order needs commodity account", func(t *testing.T) {
		o := base()
		o.Commodity = domain.CurrencyCommodity("EUR")
		assert.ErrorIs(t, o.Validate(), domain.ErrInvalidOrder)
		o.CommodityAccountID = "acc-eur"
		assert.NoError(t, o.Validate())
	})
	t.Run("instrument order needs instrument id", func(t *testing.T) {
		o := base()
		o.Commodity = domain.InstrumentCommodity("bond")
		assert.ErrorIs(t, o.Validate(), domain.ErrInvalidOrder)
		o.InstrumentID = "inst-1"
		assert.NoError(t, o.Validate())
	})
	t.Run("instrument order amount must be whole units", func(t *testing.T) {
		o := base()
		o.Commodity = domain.InstrumentCommodity("bond")
		o.InstrumentID = "inst-1"
		o.Amount = dec("1.5")
		assert.ErrorIs(t, o.Validate(), domain.ErrOrderNotSplittable)
	})
}
