package fx

import (
	"errors"
	"math"
	"testing"
)

func TestToBaseDividesByRate(t *testing.T) {
	table := RateTable{"UGX": 3700}
	got, err := table.ToBase(370000, "UGX")
	if err != nil {
		t.Fatalf("ToBase returned error: %v", err)
	}
	if got != 100 {
		t.Fatalf("expected 100 got %.4f", got)
	}
}

func TestFromBaseMultipliesByRate(t *testing.T) {
	table := RateTable{"UGX": 3700}
	got, err := table.FromBase(100, "UGX")
	if err != nil {
		t.Fatalf("FromBase returned error: %v", err)
	}
	if got != 370000 {
		t.Fatalf("expected 370000 got %.4f", got)
	}
}

func TestBaseCurrencyAlwaysParity(t *testing.T) {
	table := RateTable{}
	got, err := table.ToBase(42.5, BaseCurrency)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42.5 {
		t.Fatalf("expected 42.5 got %.4f", got)
	}
}

func TestUnknownCurrencyFailsLoudly(t *testing.T) {
	table := RateTable{"UGX": 3700}
	_, err := table.ToBase(10, "KES")
	if err == nil {
		t.Fatalf("expected error for unknown currency")
	}
	var unknown *UnknownCurrencyError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownCurrencyError got %T", err)
	}
	if unknown.Currency != "KES" {
		t.Fatalf("expected currency KES got %q", unknown.Currency)
	}
}

func TestZeroRateTreatedAsUnknown(t *testing.T) {
	table := RateTable{"UGX": 0}
	if _, err := table.ToBase(10, "UGX"); err == nil {
		t.Fatalf("expected error for zero rate")
	}
}

func TestRoundTrip(t *testing.T) {
	table := RateTable{"UGX": 3700, "KES": 129.5, "EUR": 0.92}
	for currency := range table {
		base, err := table.ToBase(123.45, currency)
		if err != nil {
			t.Fatalf("ToBase %s: %v", currency, err)
		}
		back, err := table.FromBase(base, currency)
		if err != nil {
			t.Fatalf("FromBase %s: %v", currency, err)
		}
		if math.Abs(back-123.45) > 1e-9 {
			t.Fatalf("round trip for %s drifted: %.12f", currency, back)
		}
	}
}

func TestConvertViaBaseLeg(t *testing.T) {
	table := RateTable{"UGX": 3700}
	got, err := table.Convert(Money{Amount: 100, Currency: "USD"}, "UGX")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if got.Amount != 370000 || got.Currency != "UGX" {
		t.Fatalf("unexpected conversion %+v", got)
	}
}
