package stakereport

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a fiat monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the locale-formatted representation of the money value.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// Fixed renders the bare value rounded to the currency's fraction
// digits ("216.35" for USD).
func (m Money) Fixed() string {
	return m.value.StringFixed(int32(m.currency().Fraction))
}

func (m Money) Currency() string           { return m.cur }
func (m Money) Decimal() decimal.Decimal   { return m.value }
func (m Money) Equal(n Money) bool         { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool               { return m.value.IsZero() }
func (m Money) IsPositive() bool           { return m.value.IsPositive() }
func (m Money) IsNegative() bool           { return m.value.IsNegative() }
func (m Money) Neg() Money                 { return Money{value: m.value.Neg(), cur: m.cur} }

// Mul values a native-coin amount at this price.
func (m Money) Mul(a Amount) Money { return Money{value: m.value.Mul(a.value), cur: m.cur} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + "!=" + b.cur)
	}
	return a.cur
}
