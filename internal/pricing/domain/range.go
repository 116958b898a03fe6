package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CostRange summarizes a collection of price/cost values for display.
type CostRange struct {
	Min     decimal.Decimal `json:"min"`
	Max     decimal.Decimal `json:"max"`
	Average decimal.Decimal `json:"average"`
	Count   int             `json:"count"`

	// TotalVendors counts distinct vendors behind the values. RangeOf
	// only sees bare values, so the caller fills it in.
	TotalVendors int `json:"totalVendors"`
}

// RangeOf computes the min/max/average window over the given values. Empty
// input yields the all-zero range; it never fails.
func RangeOf(values []decimal.Decimal) CostRange {
	if len(values) == 0 {
		return CostRange{}
	}

	min := values[0]
	max := values[0]
	sum := decimal.Zero
	for _, value := range values {
		if value.LessThan(min) {
			min = value
		}
		if value.GreaterThan(max) {
			max = value
		}
		sum = sum.Add(value)
	}

	return CostRange{
		Min:     min,
		Max:     max,
		Average: sum.Div(decimal.NewFromInt(int64(len(values)))),
		Count:   len(values),
	}
}

var displayPrinter = message.NewPrinter(language.English)

// FormatAmount renders a value with locale integer grouping: 1234 becomes
// "1,234". Fractional values keep their fraction after the grouped part.
func FormatAmount(value decimal.Decimal) string {
	if value.IsInteger() {
		return displayPrinter.Sprintf("%v", number.Decimal(value.IntPart()))
	}
	f, _ := value.Float64()
	return displayPrinter.Sprintf("%v", number.Decimal(f))
}

// FormatCostDisplay collapses a line's values into the display string: a
// single authoritative value directly, location-scoped values as a
// "min-max" window, and "N/A" when nothing is priced.
func FormatCostDisplay(single *decimal.Decimal, rowValues []decimal.Decimal) string {
	if single != nil {
		return FormatAmount(*single)
	}
	if len(rowValues) == 0 {
		return "N/A"
	}
	window := RangeOf(rowValues)
	if window.Min.Equal(window.Max) {
		return FormatAmount(window.Min)
	}
	return FormatAmount(window.Min) + "-" + FormatAmount(window.Max)
}
