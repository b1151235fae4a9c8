package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/econsim/clearing/internal/adapter/http/dto"
	"github.com/econsim/clearing/internal/domain"
	"github.com/econsim/clearing/internal/usecase"
)

// BookHandler exposes the order books: placement, cancellation, snapshots,
// the analytical price curve and the buy operation.
type BookHandler struct {
	orderBook  *usecase.OrderBookUseCase
	pricing    *usecase.PricingUseCase
	settlement *usecase.SettlementUseCase
	cache      usecase.Cache
	cacheTTL   time.Duration
	logger     zerolog.Logger
}

// NewBookHandler creates a new BookHandler. cache may be nil, in which case
// snapshots are always served from the book.
func NewBookHandler(
	orderBook *usecase.OrderBookUseCase,
	pricing *usecase.PricingUseCase,
	settlement *usecase.SettlementUseCase,
	cache usecase.Cache,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) *BookHandler {
	return &BookHandler{
		orderBook:  orderBook,
		pricing:    pricing,
		settlement: settlement,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// PlaceOrder inserts a standing sell order.
func (h *BookHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order", err.Error())
		return
	}

	order, err := h.orderBook.Place(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to place order", err.Error())
		return
	}

	h.invalidate(r, order.Currency, order.Commodity)
	writeJSON(w, http.StatusCreated, dto.OrderFromDomain(order))
}

// CancelOrders withdraws an offeror's standing orders.
func (h *BookHandler) CancelOrders(w http.ResponseWriter, r *http.Request) {
	var req dto.CancelOrdersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cancellation", err.Error())
		return
	}

	cancelled, err := h.orderBook.Cancel(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to cancel orders", err.Error())
		return
	}

	if input.Commodity != nil {
		h.invalidate(r, input.Currency, *input.Commodity)
	}
	writeJSON(w, http.StatusOK, dto.CancelResponse{Cancelled: cancelled})
}

// Buy matches and settles against a book under the request's bounds.
func (h *BookHandler) Buy(w http.ResponseWriter, r *http.Request) {
	var req dto.BuyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid buy request", err.Error())
		return
	}

	result, err := h.settlement.Buy(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "buy failed", err.Error())
		return
	}

	h.invalidate(r, input.Currency, input.Commodity)
	writeJSON(w, http.StatusOK, dto.BuyResultFromUseCase(result))
}

// Snapshot serves the cheapest levels of one book, cached briefly when a
// cache is wired.
func (h *BookHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	currency := chi.URLParam(r, "currency")
	commodity, err := domain.ParseCommodity(chi.URLParam(r, "commodity"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid commodity", err.Error())
		return
	}
	limit := parseIntQuery(r, "limit", 50)

	key := "book:" + currency + ":" + commodity.String()
	if h.cache != nil {
		if cached, err := h.cache.Get(r.Context(), key); err == nil && cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(cached))
			return
		}
	}

	levels, err := h.orderBook.Snapshot(r.Context(), currency, commodity, limit)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to snapshot book", err.Error())
		return
	}
	depth, err := h.orderBook.Depth(r.Context(), currency, commodity)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to read depth", err.Error())
		return
	}

	resp := dto.BookFromLevels(currency, commodity.String(), depth.String(), levels)
	if h.cache != nil {
		if body, err := json.Marshal(resp); err == nil {
			if err := h.cache.Set(r.Context(), key, string(body), h.cacheTTL); err != nil {
				h.logger.Warn().Err(err).Str("key", key).Msg("failed to cache book snapshot")
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Price answers a point query on the analytical price function. mode is
// "marginal" or "average"; amount is the cumulative purchase amount.
func (h *BookHandler) Price(w http.ResponseWriter, r *http.Request) {
	currency := chi.URLParam(r, "currency")
	commodity, err := domain.ParseCommodity(chi.URLParam(r, "commodity"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid commodity", err.Error())
		return
	}

	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	var price decimal.Decimal
	switch mode := r.URL.Query().Get("mode"); mode {
	case "", "marginal":
		price, err = h.pricing.MarginalPrice(r.Context(), currency, commodity, amount)
	case "average":
		price, err = h.pricing.AveragePrice(r.Context(), currency, commodity, amount)
	default:
		writeError(w, http.StatusBadRequest, "invalid mode", "mode must be marginal or average")
		return
	}
	if err != nil {
		writeError(w, mapDomainError(err), "price query failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PriceResponse{Amount: amount.String(), Price: price.String()})
}

// Segments serves the piecewise form of the price curve, optionally cut off
// at a spending budget.
func (h *BookHandler) Segments(w http.ResponseWriter, r *http.Request) {
	currency := chi.URLParam(r, "currency")
	commodity, err := domain.ParseCommodity(chi.URLParam(r, "commodity"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid commodity", err.Error())
		return
	}

	var maxSpend decimal.NullDecimal
	if raw := r.URL.Query().Get("max_spend"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid max_spend", err.Error())
			return
		}
		maxSpend = decimal.NullDecimal{Decimal: d, Valid: true}
	}

	segments, err := h.pricing.Segments(r.Context(), currency, commodity, maxSpend)
	if err != nil {
		writeError(w, mapDomainError(err), "segment query failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SegmentsFromUseCase(currency, commodity, segments))
}

func (h *BookHandler) invalidate(r *http.Request, currency string, commodity domain.Commodity) {
	if h.cache == nil {
		return
	}
	key := "book:" + currency + ":" + commodity.String()
	if err := h.cache.Delete(r.Context(), key); err != nil {
		h.logger.Warn().Err(err).Str("key", key).Msg("failed to invalidate book snapshot")
	}
}
