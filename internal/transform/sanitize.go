package transform

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SanitizeID converts an unset id (zero) to nil so it serializes as JSON
// null. The wire format rejects empty-string numerics, so ids are either a
// real number or null, never "".
func SanitizeID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

// SanitizeNumber parses free-form numeric input from a form field. Blank
// input becomes nil; anything else must parse as a number.
func SanitizeNumber(value string) (*decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", value)
	}
	return &d, nil
}

func idValue(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
