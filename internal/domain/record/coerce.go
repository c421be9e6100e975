package record

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// ISODate is the canonical date layout used by form inputs.
const ISODate = "2006-01-02"

// genericDateLayouts are tried, in order, when a date value matches none of
// the known sheet formats.
var genericDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02 Jan 2006",
}

// NormalizeDate rewrites a sheet date value to YYYY-MM-DD. Values already in
// ISO form pass through, DD.MM.YYYY, DD/MM/YYYY and DD-MM-YYYY are reordered,
// and anything else goes through generic parsing. On total failure the
// original string is returned unchanged; this function never fails, so the
// form can always render whatever the sheet holds.
func NormalizeDate(s string) string {
	if s == "" {
		return ""
	}
	if isoDatePattern.MatchString(s) {
		return s
	}
	for _, p := range []*regexp.Regexp{dottedPattern, slashedPattern, dashedPattern} {
		if m := p.FindStringSubmatch(s); m != nil {
			return fmt.Sprintf("%s-%s-%s", m[3], m[2], m[1])
		}
	}
	for _, layout := range genericDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ISODate)
		}
	}
	return s
}

// CoerceAmount converts a sheet cell to a decimal amount. Currency symbols
// and thousands separators are stripped first. Unparseable values coerce to
// zero rather than failing; the caller decides whether that is worth
// surfacing.
func CoerceAmount(value any) decimal.Decimal {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case string:
		stripped := currencyStripper.Replace(v)
		if stripped == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(stripped)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// FormValue converts a raw sheet value into its form-editable representation
// per the column's inferred kind: dates normalize to ISO, amounts to a
// numeric value, everything else passes through as a string.
func FormValue(column string, value any) any {
	switch Classify(column, value) {
	case KindDate:
		if s, ok := value.(string); ok {
			return NormalizeDate(s)
		}
		return value
	case KindAmount:
		if value == nil || value == "" {
			return value
		}
		f, _ := CoerceAmount(value).Float64()
		return f
	default:
		if value == nil {
			return ""
		}
		return value
	}
}
