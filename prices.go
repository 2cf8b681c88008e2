package stakereport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/brainwerk/stakereport/date"
	"github.com/shopspring/decimal"
)

// PriceSeries holds the daily opening prices of the native coin, sorted
// by day. It is immutable after load.
type PriceSeries struct {
	cur    string
	prices date.History[decimal.Decimal]
}

// Currency returns the fiat currency code of the series (e.g. "USD").
func (s *PriceSeries) Currency() string { return s.cur }

// Len returns the number of entries in the series.
func (s *PriceSeries) Len() int { return s.prices.Len() }

// Period returns the first and last day covered by the series.
func (s *PriceSeries) Period() date.Range {
	first, _ := s.prices.First()
	last, _ := s.prices.Latest()
	return date.Range{From: first, To: last}
}

// PriceOn returns the opening price effective on 'day': the entry with the
// greatest date on or before it. Intraday movement past the open is a known,
// accepted imprecision; there is no interpolation and no use of future prices.
func (s *PriceSeries) PriceOn(day date.Date) (Money, error) {
	p, ok := s.prices.ValueAsOf(day)
	if !ok {
		earliest, _ := s.prices.First()
		return Money{}, &NoPriceDataError{Day: day, Earliest: earliest}
	}
	return M(p, s.cur), nil
}

// LoadPrices reads a CSV price table with a header row naming a "date"
// column and a "price(CUR)" column, e.g.
//
//	date,price(USD)
//	2017-01-01,10.00
//	2017-01-05,12.00
//
// Rows must be in strictly ascending date order (which also guarantees
// uniqueness) and every price must be positive. Any violation fails the
// whole load with a MalformedPriceDataError.
func LoadPrices(r io.Reader) (*PriceSeries, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, &MalformedPriceDataError{Line: 1, Reason: fmt.Sprintf("cannot read header: %v", err)}
	}

	dateCol, priceCol := -1, -1
	currency := ""
	for i, name := range header {
		name = strings.TrimSpace(name)
		switch {
		case name == "date":
			dateCol = i
		case strings.HasPrefix(name, "price(") && strings.HasSuffix(name, ")"):
			priceCol = i
			currency = strings.TrimSuffix(strings.TrimPrefix(name, "price("), ")")
		}
	}
	if dateCol < 0 || priceCol < 0 {
		return nil, &MalformedPriceDataError{Line: 1, Reason: fmt.Sprintf("header %v lacks 'date' or 'price(CUR)' column", header)}
	}

	s := &PriceSeries{cur: currency}
	var prev date.Date
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &MalformedPriceDataError{Line: line, Reason: err.Error()}
		}
		day, err := date.Parse(rec[dateCol])
		if err != nil {
			return nil, &MalformedPriceDataError{Line: line, Reason: err.Error()}
		}
		if !prev.IsZero() && !prev.Before(day) {
			return nil, &MalformedPriceDataError{Line: line, Reason: fmt.Sprintf("date %s is not after previous date %s", day, prev)}
		}
		price, err := decimal.NewFromString(strings.TrimSpace(rec[priceCol]))
		if err != nil {
			return nil, &MalformedPriceDataError{Line: line, Reason: fmt.Sprintf("invalid price %q: %v", rec[priceCol], err)}
		}
		if !price.IsPositive() {
			return nil, &MalformedPriceDataError{Line: line, Reason: fmt.Sprintf("price %s on %s is not positive", price, day)}
		}
		s.prices.Append(day, price)
		prev = day
	}
	if s.prices.Len() == 0 {
		return nil, &MalformedPriceDataError{Reason: "price table has no entries"}
	}
	return s, nil
}
