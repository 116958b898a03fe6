package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func values(raw ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(raw))
	for _, r := range raw {
		out = append(out, decimal.RequireFromString(r))
	}
	return out
}

func TestRangeOfEmpty(t *testing.T) {
	window := RangeOf(nil)
	if !window.Min.IsZero() || !window.Max.IsZero() || !window.Average.IsZero() {
		t.Fatalf("expected zero-valued range, got %+v", window)
	}
	if window.Count != 0 || window.TotalVendors != 0 {
		t.Fatalf("expected zero counts, got %+v", window)
	}
}

func TestRangeOfSingle(t *testing.T) {
	window := RangeOf(values("42"))
	if !window.Min.Equal(decimal.RequireFromString("42")) {
		t.Fatalf("unexpected min %s", window.Min)
	}
	if !window.Max.Equal(window.Min) {
		t.Fatalf("expected min == max, got %+v", window)
	}
	if !window.Average.Equal(window.Min) {
		t.Fatalf("expected average == value, got %s", window.Average)
	}
	if window.Count != 1 {
		t.Fatalf("expected count 1, got %d", window.Count)
	}
}

func TestRangeOfPair(t *testing.T) {
	window := RangeOf(values("5", "10"))
	if !window.Min.Equal(decimal.RequireFromString("5")) {
		t.Fatalf("unexpected min %s", window.Min)
	}
	if !window.Max.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("unexpected max %s", window.Max)
	}
	if !window.Average.Equal(decimal.RequireFromString("7.5")) {
		t.Fatalf("unexpected average %s", window.Average)
	}
	if window.Count != 2 {
		t.Fatalf("unexpected count %d", window.Count)
	}
}

func TestFormatAmountGrouping(t *testing.T) {
	got := FormatAmount(decimal.RequireFromString("1234"))
	if got != "1,234" {
		t.Fatalf("expected \"1,234\", got %q", got)
	}
}

func TestFormatCostDisplay(t *testing.T) {
	single := decimal.RequireFromString("1234")

	if got := FormatCostDisplay(&single, nil); got != "1,234" {
		t.Fatalf("expected single value display, got %q", got)
	}
	if got := FormatCostDisplay(nil, values("100", "250")); got != "100-250" {
		t.Fatalf("expected range display, got %q", got)
	}
	if got := FormatCostDisplay(nil, nil); got != "N/A" {
		t.Fatalf("expected N/A, got %q", got)
	}
	if got := FormatCostDisplay(nil, values("7500", "12000")); got != "7,500-12,000" {
		t.Fatalf("expected grouped range, got %q", got)
	}
}
