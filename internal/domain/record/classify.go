package record

import (
	"regexp"
	"strings"
)

// Kind is the inferred treatment of a column/value pair.
type Kind string

const (
	KindDate   Kind = "date"
	KindAmount Kind = "amount"
	KindText   Kind = "text"
)

var (
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	dottedPattern    = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})`)
	slashedPattern   = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})`)
	dashedPattern    = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})`)
	numericPattern   = regexp.MustCompile(`^[\d,]+\.?\d*$`)
	currencyStripper = strings.NewReplacer("$", "", ",", "")
)

// amountKeywords are column-name fragments that mark a monetary column.
var amountKeywords = []string{
	"amount", "price", "cost", "total", "withdrawn", "paid", "given", "contributed",
}

// Classify infers the kind of a column/value pair. Rules are checked in
// order and the first match wins:
//
//  1. column name contains "date"
//  2. value looks like a date (ISO, DD.MM.YYYY, DD/MM/YYYY, DD-MM-YYYY)
//  3. column name contains an amount keyword
//  4. value is numeric after stripping "$" and ","
//  5. text
//
// The same column may hold mixed representations across rows, so the result
// is recomputed per value and never cached per column. Classify never fails;
// anything ambiguous is text.
func Classify(column string, value any) Kind {
	lower := strings.ToLower(column)
	if strings.Contains(lower, "date") {
		return KindDate
	}
	if s, ok := value.(string); ok && looksLikeDate(s) {
		return KindDate
	}
	for _, kw := range amountKeywords {
		if strings.Contains(lower, kw) {
			return KindAmount
		}
	}
	switch v := value.(type) {
	case float64, int, int64:
		_ = v
		return KindAmount
	case string:
		stripped := currencyStripper.Replace(v)
		if stripped != "" && numericPattern.MatchString(stripped) {
			return KindAmount
		}
	}
	return KindText
}

func looksLikeDate(s string) bool {
	return isoDatePattern.MatchString(s) ||
		dottedPattern.MatchString(s) ||
		slashedPattern.MatchString(s) ||
		dashedPattern.MatchString(s)
}
