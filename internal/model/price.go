package model

import (
	"math"
	"strconv"
	"strings"
)

// ParsePrice parses a price field as typed by the user.
// Empty or non-numeric input yields nil, never 0 or NaN.
func ParsePrice(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
