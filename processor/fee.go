package processor

import (
	"strconv"
	"strings"
)

// freeFeeTerms are fee strings that mean no money changed hands.
var freeFeeTerms = map[string]struct{}{
	"free":          {},
	"free transfer": {},
	"loan":          {},
	"-":             {},
}

// ParseFee converts a free-form fee string into millions of currency units.
//
// Known no-fee spellings and the empty string yield 0. Otherwise currency
// symbols and spaces are stripped; an "M" suffix means the number is already
// in millions, a "K" suffix means thousands, and a bare number is taken as
// base currency units. A bare "500000" therefore becomes 0.5 while "500K"
// also becomes 0.5 but "500" becomes 0.0005; that asymmetry is part of the
// upstream data contract and is kept as is. Unparseable input degrades to 0
// rather than failing the pipeline.
func ParseFee(fee string) float64 {
	if fee == "" {
		return 0
	}
	if _, ok := freeFeeTerms[strings.ToLower(fee)]; ok {
		return 0
	}

	clean := strings.NewReplacer("€", "", "£", "", "$", "", " ", "").Replace(fee)

	switch {
	case strings.Contains(clean, "M"):
		v, err := strconv.ParseFloat(strings.ReplaceAll(clean, "M", ""), 64)
		if err != nil {
			return 0
		}
		return v
	case strings.Contains(clean, "K"):
		v, err := strconv.ParseFloat(strings.ReplaceAll(clean, "K", ""), 64)
		if err != nil {
			return 0
		}
		return v / 1000
	default:
		v, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return 0
		}
		return v / 1_000_000
	}
}
