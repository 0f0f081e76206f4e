package products

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNumberFormat is matched by every error returned from the locale number parsers.
var ErrNumberFormat = errors.New("malformed locale number")

// NumberFormatError reports text that does not parse as a locale-formatted number.
// Field patterns only hand numeric-shaped text to the parser, so this error means a
// pattern accepted something it should not have and the whole run is aborted.
type NumberFormatError struct {
	Input string
	Err   error
}

func (e *NumberFormatError) Error() string {
	return fmt.Sprintf("parse locale number %q: %v", e.Input, e.Err)
}

func (e *NumberFormatError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrNumberFormat) hold for any NumberFormatError.
func (e *NumberFormatError) Is(target error) bool {
	return target == ErrNumberFormat
}

// ParseLocaleDecimal converts text such as "1.234,56" (period thousands separator,
// comma decimal separator) into a decimal value.
func ParseLocaleDecimal(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &NumberFormatError{Input: s, Err: err}
	}
	return d, nil
}

// ParseLocaleNumber is ParseLocaleDecimal returning a float64.
func ParseLocaleNumber(s string) (float64, error) {
	d, err := ParseLocaleDecimal(s)
	if err != nil {
		return 0, err
	}
	f, _ := d.Float64()
	return f, nil
}
