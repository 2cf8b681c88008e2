package stakereport

import "github.com/shopspring/decimal"

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Amount is an exact quantity of the native coin (DCR).
type Amount struct {
	value decimal.Decimal
}

func A[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Amount {
	return Amount{value: newDecimal(value)}
}

// ParseAmount parses a decimal string into an Amount.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{value: d}, nil
}

func (a Amount) Add(b Amount) Amount     { return Amount{value: a.value.Add(b.value)} }
func (a Amount) Sub(b Amount) Amount     { return Amount{value: a.value.Sub(b.value)} }
func (a Amount) Equal(b Amount) bool     { return a.value.Equal(b.value) }
func (a Amount) IsZero() bool            { return a.value.IsZero() }
func (a Amount) IsNegative() bool        { return a.value.IsNegative() }
func (a Amount) Decimal() decimal.Decimal { return a.value }
func (a Amount) String() string          { return a.value.String() }

// Fixed renders the amount with a fixed number of decimal places.
// Reports use 4 places for native amounts.
func (a Amount) Fixed(places int32) string { return a.value.StringFixed(places) }

// MarshalJSON implements the json.Marshaler interface.
func (a Amount) MarshalJSON() ([]byte, error) { return a.value.MarshalJSON() }
func (a *Amount) UnmarshalJSON(b []byte) error { return a.value.UnmarshalJSON(b) }
