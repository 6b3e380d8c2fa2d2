package ton

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// NanoPerTON is the number of nanoton in one TON.
const NanoPerTON = 1_000_000_000

var nanoPerTONFloat = new(big.Float).SetInt64(NanoPerTON)

// Nano is an amount in nanoton. The explorer APIs encode it either as a JSON
// number or as a decimal string; both decode.
type Nano int64

func (n *Nano) UnmarshalJSON(b []byte) error {
	v, err := parseJSONInt(b)
	if err != nil {
		return fmt.Errorf("nanoton value: %w", err)
	}
	*n = Nano(v)
	return nil
}

// TON returns the amount in major units.
func (n Nano) TON() float64 { return NanoToTON(int64(n)) }

// Int is an int64 that accepts a JSON number or a decimal string (toncenter
// sends logical times as strings).
type Int int64

func (i *Int) UnmarshalJSON(b []byte) error {
	v, err := parseJSONInt(b)
	if err != nil {
		return err
	}
	*i = Int(v)
	return nil
}

func parseJSONInt(b []byte) (int64, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return 0, nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		return strconv.ParseInt(s, 10, 64)
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return 0, err
	}
	if v, err := num.Int64(); err == nil {
		return v, nil
	}
	// Some encoders emit 5e9 or 5000000000.0 for integral values.
	f, err := num.Float64()
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

// NanoToTON converts nanoton to TON.
func NanoToTON(n int64) float64 {
	return float64(n) / NanoPerTON
}

// FormatTON renders a nanoton amount as an exact decimal TON string with
// trailing zeros trimmed: 1500000000 → "1.5", 0 → "0".
func FormatTON(n int64) string {
	f := new(big.Float).SetInt64(n)
	f.Quo(f, nanoPerTONFloat)
	s := f.Text('f', 9)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

// ParseTON parses a decimal TON amount ("1.5") into nanoton.
func ParseTON(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := strings.HasPrefix(s, "-")
	whole, frac, _ := strings.Cut(strings.TrimPrefix(s, "-"), ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 9 {
		return 0, fmt.Errorf("invalid amount %q: more than 9 decimal places", s)
	}
	frac += strings.Repeat("0", 9-len(frac))

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	total := new(big.Int).Mul(big.NewInt(w), big.NewInt(NanoPerTON))
	total.Add(total, big.NewInt(f))
	if !total.IsInt64() {
		return 0, fmt.Errorf("amount %q out of range", s)
	}
	if neg {
		return -total.Int64(), nil
	}
	return total.Int64(), nil
}
