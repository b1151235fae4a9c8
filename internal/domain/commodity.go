package domain

import (
	"fmt"
	"strings"
)

// CommodityKind is the closed set of things a standing order can sell.
type CommodityKind string

const (
	// CommodityGood is a produced good identified by its good type.
	CommodityGood CommodityKind = "good"
	// CommodityCurrency is foreign exchange: the order sells units of another
	// currency against the book's denomination currency.
	CommodityCurrency CommodityKind = "currency"
	// CommodityInstrument is a debt or equity instrument class. Instrument
	// orders fill as whole units and are never split.
	CommodityInstrument CommodityKind = "instrument"
)

// Commodity identifies what a standing order offers: exactly one of a good
// type, a currency (FX), or an instrument class.
type Commodity struct {
	Kind CommodityKind
	// Key is the good type, the ISO currency code, or the instrument class.
	Key string
}

// GoodCommodity builds a good selector.
func GoodCommodity(goodType string) Commodity {
	return Commodity{Kind: CommodityGood, Key: goodType}
}

// CurrencyCommodity builds an FX selector.
func CurrencyCommodity(currency string) Commodity {
	return Commodity{Kind: CommodityCurrency, Key: currency}
}

// InstrumentCommodity builds an instrument-class selector.
func InstrumentCommodity(class string) Commodity {
	return Commodity{Kind: CommodityInstrument, Key: class}
}

// Validate checks the selector is well formed.
func (c Commodity) Validate() error {
	switch c.Kind {
	case CommodityGood, CommodityCurrency, CommodityInstrument:
	default:
		return ErrAmbiguousOrder
	}
	if c.Key == "" {
		return ErrAmbiguousOrder
	}
	return nil
}

// ParseCommodity reverses String: "kind:key".
func ParseCommodity(s string) (Commodity, error) {
	kind, key, ok := strings.Cut(s, ":")
	if !ok {
		return Commodity{}, ErrAmbiguousOrder
	}
	c := Commodity{Kind: CommodityKind(kind), Key: key}
	if err := c.Validate(); err != nil {
		return Commodity{}, err
	}
	return c, nil
}

// String renders the selector for log subjects and book keys.
func (c Commodity) String() string {
	return fmt.Sprintf("%s:%s", c.Kind, c.Key)
}
