package common

import (
	"fmt"
	"math/big"
	"strings"
)

const (
	EtherDecimals = 18 // native EVM coins have 18 decimals (wei)
	GweiDecimals  = 9
)

// WeiToEther converts wei to a coin amount string without float precision loss
func WeiToEther(wei *big.Int) string {
	return formatWithDecimals(wei, EtherDecimals)
}

// EtherToWei converts a coin amount string to wei without float precision loss
func EtherToWei(amount string) (*big.Int, error) {
	return parseWithDecimals(amount, EtherDecimals)
}

// WeiToGwei converts wei to a gwei string
func WeiToGwei(wei *big.Int) string {
	return formatWithDecimals(wei, GweiDecimals)
}

// GweiToWei converts a gwei string to wei
func GweiToWei(gwei string) (*big.Int, error) {
	return parseWithDecimals(gwei, GweiDecimals)
}

// ParseWei parses a base-10 wei string. Empty string is zero.
func ParseWei(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid wei amount '%s'", s)
	}
	return n, nil
}

// Percent returns v * pct / 100, rounded down.
func Percent(v *big.Int, pct int64) *big.Int {
	out := new(big.Int).Mul(v, big.NewInt(pct))
	return out.Div(out, big.NewInt(100))
}

// MaxBig returns the larger of a and b.
func MaxBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// MulRate multiplies a coin amount by a decimal rate (e.g. a USD price) and
// returns the result with two decimals. Both inputs are decimal strings.
func MulRate(amount, rate string) (string, error) {
	a, err := parseWithDecimals(amount, EtherDecimals)
	if err != nil {
		return "", fmt.Errorf("failed to parse amount '%s': %w", amount, err)
	}
	r, err := parseWithDecimals(rate, EtherDecimals)
	if err != nil {
		return "", fmt.Errorf("failed to parse rate '%s': %w", rate, err)
	}

	// a and r are both scaled by 10^18; the product is scaled by 10^36
	prod := new(big.Int).Mul(a, r)
	prod.Div(prod, new(big.Int).Exp(big.NewInt(10), big.NewInt(2*EtherDecimals-2), nil))
	return formatWithDecimals(prod, 2), nil
}

// formatWithDecimals converts integer to decimal string by inserting decimal point.
// Trailing fractional zeros are trimmed.
// Example: formatWithDecimals(24981836, 9) = "0.024981836"
func formatWithDecimals(value *big.Int, decimals int) string {
	if value == nil {
		value = new(big.Int)
	}
	neg := value.Sign() < 0
	s := new(big.Int).Abs(value).String()

	// Pad with leading zeros if needed
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}

	// Insert decimal point
	pos := len(s) - decimals
	whole, frac := s[:pos], strings.TrimRight(s[pos:], "0")
	out := whole
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// parseWithDecimals converts decimal string to integer by removing decimal point.
// More fractional digits than decimals is an error rather than a silent truncation.
// Example: parseWithDecimals("0.024981836", 9) = 24981836
func parseWithDecimals(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty string")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid decimal format")
	}

	whole := parts[0]
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		return nil, fmt.Errorf("too many decimal places (max %d)", decimals)
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return nil, fmt.Errorf("invalid decimal format")
	}

	// Pad fractional part to exact decimals
	frac += strings.Repeat("0", decimals-len(frac))

	// Combine and parse
	n, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal format")
	}
	return n, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
