package pricing

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Kind identifies the pricing variant of a campaign.
type Kind string

const (
	KindFixed Kind = "fixed"
	KindOpen  Kind = "open"
)

// OpenUnitPrice is the symbolic unit price persisted for open campaigns, so
// that value = units × price holds for both variants.
const OpenUnitPrice int64 = 1

var (
	ErrInvalidUnitPrice  = errors.New("unit price must be at least 1")
	ErrInvalidStockLimit = errors.New("stock limit must be at least 1")
	ErrUnknownKind       = errors.New("unknown pricing mode")
)

// Mode is the pricing of a campaign: either Fixed or Open.
type Mode interface {
	Kind() Kind
	UnitPrice() int64
	Stock() Stock
	isMode()
}

// Fixed sells slots at a set price. StockLimit is an advisory ceiling; it is
// never decremented by contributions.
type Fixed struct {
	Price      int64
	StockLimit int64
}

func (Fixed) Kind() Kind {
	return KindFixed
}

func (f Fixed) UnitPrice() int64 {
	return f.Price
}

func (f Fixed) Stock() Stock {
	return Stock{Limit: f.StockLimit}
}

func (Fixed) isMode() {}

func (f Fixed) String() string {
	return fmt.Sprintf("fixed(%d×%d)", f.Price, f.StockLimit)
}

// Open lets the contributor choose the amount; each unit is worth OpenUnitPrice.
type Open struct{}

func (Open) Kind() Kind {
	return KindOpen
}

func (Open) UnitPrice() int64 {
	return OpenUnitPrice
}

func (Open) Stock() Stock {
	return Stock{Unlimited: true}
}

func (Open) isMode() {}

func (Open) String() string {
	return "open"
}

// Stock is the capacity a campaign advertises.
type Stock struct {
	Limit     int64
	Unlimited bool
}

func (s Stock) MarshalJSON() ([]byte, error) {
	if s.Unlimited {
		return []byte(`"unlimited"`), nil
	}

	return strconv.AppendInt(nil, s.Limit, 10), nil
}

// Validate checks the numeric bounds of m.
func Validate(m Mode) error {
	switch v := m.(type) {
	case Fixed:
		if v.Price < 1 {
			return ErrInvalidUnitPrice
		}

		if v.StockLimit < 1 {
			return ErrInvalidStockLimit
		}

		return nil
	case Open:
		return nil
	default:
		return ErrUnknownKind
	}
}

// SameKind reports whether a and b are the same variant.
func SameKind(a, b Mode) bool {
	if a == nil || b == nil {
		return false
	}

	return a.Kind() == b.Kind()
}

// Value returns the monetary value of units contributed under m.
func Value(m Mode, units int64) decimal.Decimal {
	return ValueAt(m.UnitPrice(), units)
}

// ValueAt returns units × unitPrice without overflowing int64.
func ValueAt(unitPrice, units int64) decimal.Decimal {
	return decimal.NewFromInt(unitPrice).Mul(decimal.NewFromInt(units))
}

// Encode flattens m into its persisted columns. stockLimit is 0 for Open.
func Encode(m Mode) (kind Kind, unitPrice, stockLimit int64) {
	switch v := m.(type) {
	case Fixed:
		return KindFixed, v.Price, v.StockLimit
	default:
		return KindOpen, OpenUnitPrice, 0
	}
}

// Decode rebuilds a Mode from its persisted columns.
func Decode(kind Kind, unitPrice, stockLimit int64) (Mode, error) {
	switch kind {
	case KindFixed:
		m := Fixed{Price: unitPrice, StockLimit: stockLimit}
		if err := Validate(m); err != nil {
			return nil, err
		}

		return m, nil
	case KindOpen:
		return Open{}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// ParseKind validates a kind read from user input.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindFixed, KindOpen:
		return k, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
