package fx

import "fmt"

// BaseCurrency is the currency all internal sums are accumulated in.
const BaseCurrency = "USD"

// RateTable maps a currency code to units of that currency per one unit of
// the base currency. The base currency itself always resolves to 1. The
// table is treated as an immutable snapshot for the lifetime of one
// computation.
type RateTable map[string]float64

// UnknownCurrencyError signals an amount tagged with a currency absent from
// the rate table. Conversion never defaults silently to parity: a missing
// rate corrupts totals undetectably, so the whole computation must abort.
type UnknownCurrencyError struct {
	Currency string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("fx: unknown currency %q", e.Currency)
}

// Money couples an amount with the currency it is denominated in.
type Money struct {
	Amount   float64
	Currency string
}

// Rate returns the units-per-base rate for the given currency code.
func (t RateTable) Rate(currency string) (float64, error) {
	if currency == BaseCurrency {
		return 1, nil
	}
	rate, ok := t[currency]
	if !ok || rate <= 0 {
		return 0, &UnknownCurrencyError{Currency: currency}
	}
	return rate, nil
}

// ToBase converts an amount into the base currency. No rounding is applied;
// rounding happens only at presentation boundaries.
func (t RateTable) ToBase(amount float64, currency string) (float64, error) {
	rate, err := t.Rate(currency)
	if err != nil {
		return 0, err
	}
	return amount / rate, nil
}

// FromBase converts a base-currency amount into the given display currency.
func (t RateTable) FromBase(amount float64, currency string) (float64, error) {
	rate, err := t.Rate(currency)
	if err != nil {
		return 0, err
	}
	return amount * rate, nil
}

// Convert moves a tagged amount into the target currency via the base leg.
func (t RateTable) Convert(m Money, target string) (Money, error) {
	base, err := t.ToBase(m.Amount, m.Currency)
	if err != nil {
		return Money{}, err
	}
	amount, err := t.FromBase(base, target)
	if err != nil {
		return Money{}, err
	}
	return Money{Amount: amount, Currency: target}, nil
}

// Has reports whether a rate exists for the currency.
func (t RateTable) Has(currency string) bool {
	if currency == BaseCurrency {
		return true
	}
	rate, ok := t[currency]
	return ok && rate > 0
}
