package costmodel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a decimal quantity, usually a sum of money in INR. It decodes from JSON numbers and from
// numeric strings such as "1,200.50" or "₹300", which models produce often
// enough to matter. Null decodes to zero.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		d, err := parseMoney(s)
		if err != nil {
			return err
		}
		*a = Amount(d.InexactFloat64())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount(f)
	return nil
}

// Decimal returns the amount as a decimal.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromFloat(float64(a))
}

// Float64 returns the amount as a float64.
func (a Amount) Float64() float64 {
	return float64(a)
}

// round2 rounds half away from zero to two decimal places.
func round2(d decimal.Decimal) Amount {
	return Amount(d.Round(2).InexactFloat64())
}

func parseMoney(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("₹", "", "INR", "", "Rs.", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount: invalid number %q", s)
	}
	return d, nil
}
