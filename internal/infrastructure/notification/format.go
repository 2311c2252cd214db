package notification

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts and names for the tenant's locale
type Formatter struct {
	printer *message.Printer
	caser   cases.Caser
	unit    currency.Unit
}

// NewFormatter builds a formatter for a BCP 47 locale and an ISO 4217 currency
func NewFormatter(locale, currencyCode string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid notification locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("invalid notification currency %q: %w", currencyCode, err)
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		caser:   cases.Title(tag, cases.NoLower),
		unit:    unit,
	}, nil
}

// Amount formats a money amount with two decimals, e.g. "USD 300.00"
func (f *Formatter) Amount(amount decimal.Decimal) string {
	return f.printer.Sprintf("%s %.2f", f.unit.String(), amount.Round(2).InexactFloat64())
}

// Name title-cases a property name for display
func (f *Formatter) Name(name string) string {
	return f.caser.String(name)
}
