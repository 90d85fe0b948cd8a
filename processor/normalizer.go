package processor

import (
	"strconv"
	"time"

	"transferflow/models"
)

// defaultFeeCurrency is assumed when the API omits the fee currency.
const defaultFeeCurrency = "EUR"

// dateLayouts are tried in order when coercing the transfer date. The API
// normally emits ISO dates but older seasons carry a few legacy formats.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"02.01.2006",
}

// Normalize maps one raw transfer record onto the fixed flat schema. It is a
// pure function and total over its input: every field of the result is
// populated no matter which source fields were present.
//
// Two distinct missing-value policies apply. The fee always degrades to a
// number (0 on anything unparseable) while age, market value and date
// degrade to null and are excluded from numeric aggregates downstream.
func Normalize(raw models.RawTransfer) models.FlatTransfer {
	player := raw.PlayerBlock()
	from := raw.FromClubBlock()
	to := raw.ToClubBlock()

	currency := raw.FeeCurrency
	if currency == "" {
		currency = defaultFeeCurrency
	}

	fee := ParseFee(raw.Fee)

	return models.FlatTransfer{
		PlayerID:            coerceString(player.ID),
		PlayerName:          player.Name,
		PlayerAge:           coerceInt(player.Age),
		PlayerPosition:      player.Position,
		PlayerNationality:   player.Nationality,
		FromClubID:          coerceString(from.ID),
		FromClubName:        from.Name,
		FromClubLeague:      from.League,
		ToClubID:            coerceString(to.ID),
		ToClubName:          to.Name,
		ToClubLeague:        to.League,
		TransferFee:         &fee,
		TransferFeeCurrency: currency,
		TransferDate:        coerceDate(raw.Date),
		TransferType:        raw.Type,
		ContractDuration:    raw.ContractDuration,
		Season:              raw.Season,
		MarketValue:         coerceMarketValue(player.MarketValue),
	}
}

// NormalizeAll normalizes a fetched batch in input order. No deduplication
// is performed; the table mirrors the API response row for row.
func NormalizeAll(raws []models.RawTransfer) []models.FlatTransfer {
	if len(raws) == 0 {
		return nil
	}
	flats := make([]models.FlatTransfer, 0, len(raws))
	for _, raw := range raws {
		flats = append(flats, Normalize(raw))
	}
	return flats
}

// coerceString renders loosely-typed identifiers as strings. Numeric ids
// are formatted without an exponent; anything else defaults to "".
func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}

// coerceFloat converts a loosely-typed value to an optional number. A nil
// result means the value was absent or not numeric; callers decide whether
// that excludes the record from an aggregate.
func coerceFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return &f
		}
		return nil
	default:
		return nil
	}
}

// coerceInt is coerceFloat truncated to a whole number, used for ages.
func coerceInt(v any) *int {
	f := coerceFloat(v)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}

// coerceMarketValue applies the market value policy: absent defaults to 0,
// present but non-numeric degrades to null.
func coerceMarketValue(v any) *float64 {
	if v == nil {
		zero := 0.0
		return &zero
	}
	return coerceFloat(v)
}

// coerceDate parses the free-form transfer date; unparseable or empty input
// yields nil so the record is skipped by date-valued aggregations only.
func coerceDate(s string) *models.Date {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := models.NewDate(t)
			return &d
		}
	}
	return nil
}
