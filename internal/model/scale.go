package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDimension is returned when a dimension string cannot be parsed
// or falls outside the digit budget.
var ErrInvalidDimension = errors.New("invalid dimension")

// MaxDigitBudget is the integer-digits + decimal-digits ceiling enforced on
// every scaled dimension (§3, §4.9).
const MaxDigitBudget = 6

// MaxScaledDimension is the largest value a scaled dimension may take
// (§4.9 "each dimension must parse as positive and <= 100000 after
// scaling").
const MaxScaledDimension = 100000

// parseDecimal splits a non-negative decimal string "123.456" into its
// integer part and fractional digit run ("456"). A bare integer string has
// an empty fractional run.
func parseDecimal(s string) (intPart int64, fracDigits string, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "", fmt.Errorf("%w: empty dimension", ErrInvalidDimension)
	}
	dot := strings.IndexByte(s, '.')
	intStr := s
	if dot >= 0 {
		intStr = s[:dot]
		fracDigits = s[dot+1:]
	}
	if intStr == "" {
		intStr = "0"
	}
	for _, r := range fracDigits {
		if r < '0' || r > '9' {
			return 0, "", fmt.Errorf("%w: %q", ErrInvalidDimension, s)
		}
	}
	intPart, err = strconv.ParseInt(intStr, 10, 64)
	if err != nil || intPart < 0 {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidDimension, s)
	}
	return intPart, fracDigits, nil
}

func digitCount(n int64) int {
	if n == 0 {
		return 1
	}
	count := 0
	for n > 0 {
		count++
		n /= 10
	}
	return count
}

func pow10(n int) int64 {
	r := int64(1)
	for i := 0; i < n; i++ {
		r *= 10
	}
	return r
}

// ComputeScale derives the scale factor shared by a batch of decimal-string
// dimensions (§3): d starts as the largest fractional-digit count across
// all values, then is reduced until integer-digits + d <= MaxDigitBudget.
// Per §5 resolution of the source's scale ambiguity, the
// returned scale is always 10^(final d), computed after the cap adjustment.
func ComputeScale(values []string) (scale int64, decimalPlaces int, err error) {
	maxFrac := 0
	maxIntDigits := 1
	for _, v := range values {
		intPart, frac, perr := parseDecimal(v)
		if perr != nil {
			return 0, 0, perr
		}
		if len(frac) > maxFrac {
			maxFrac = len(frac)
		}
		if d := digitCount(intPart); d > maxIntDigits {
			maxIntDigits = d
		}
	}
	d := maxFrac
	for maxIntDigits+d > MaxDigitBudget && d > 0 {
		d--
	}
	if maxIntDigits+d > MaxDigitBudget {
		return 0, 0, fmt.Errorf("%w: integer digits %d exceed budget %d", ErrInvalidDimension, maxIntDigits, MaxDigitBudget)
	}
	return pow10(d), d, nil
}

// ScaleValue converts a decimal-string dimension into the integer plane at
// the given decimal-places precision, rounding half-up if the input carries
// more fractional digits than decimalPlaces keeps.
func ScaleValue(s string, decimalPlaces int) (int64, error) {
	intPart, frac, err := parseDecimal(s)
	if err != nil {
		return 0, err
	}
	scale := pow10(decimalPlaces)
	scaled := intPart * scale

	if len(frac) <= decimalPlaces {
		frac = frac + strings.Repeat("0", decimalPlaces-len(frac))
		if frac != "" {
			fracVal, _ := strconv.ParseInt(frac, 10, 64)
			scaled += fracVal
		}
		return scaled, nil
	}

	kept := frac[:decimalPlaces]
	roundDigit := frac[decimalPlaces]
	var keptVal int64
	if kept != "" {
		keptVal, _ = strconv.ParseInt(kept, 10, 64)
	}
	scaled += keptVal
	if roundDigit >= '5' {
		scaled++
	}
	return scaled, nil
}

// Unscale converts a scaled integer back to a user-facing float64 (§3
// "the scale is stored and reversed at output").
func Unscale(v int64, scale int64) float64 {
	if scale == 0 {
		return float64(v)
	}
	return float64(v) / float64(scale)
}
