package render

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/finvoy/spendsheet/internal/domain/record"
)

var displayPrinter = message.NewPrinter(language.AmericanEnglish)

// displayDateLayout is how date cells read in the list view.
const displayDateLayout = "Jan 2, 2006"

// Cell is one formatted table cell.
type Cell struct {
	Column string
	Kind   record.Kind
	Text   string
}

// Row is one record rendered for display, keeping its sheet row for
// edit/delete/view affordances.
type Row struct {
	Row   int
	Cells []Cell
}

// Table is a rendered collection.
type Table struct {
	Columns []string
	Rows    []Row
}

// BuildTable renders a collection: the header unions all observed columns in
// first-seen order (the reserved row key excluded), and each cell is
// formatted by its value's inferred kind. Cells for columns a record lacks
// are empty.
func BuildTable(records []record.Record) Table {
	columns := record.Columns(records)

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		cells := make([]Cell, 0, len(columns))
		for _, col := range columns {
			raw, ok := rec.Fields.Get(col)
			if !ok || raw == nil || raw == "" {
				cells = append(cells, Cell{Column: col, Kind: record.KindText, Text: ""})
				continue
			}
			kind := record.Classify(col, raw)
			cells = append(cells, Cell{Column: col, Kind: kind, Text: FormatCell(col, raw, kind)})
		}
		rows = append(rows, Row{Row: rec.Row, Cells: cells})
	}

	return Table{Columns: columns, Rows: rows}
}

// FormatCell renders one value for display: amounts as localized currency,
// dates as short human dates, everything else as plain text. Values that
// fail to parse fall back to their raw text.
func FormatCell(col string, raw any, kind record.Kind) string {
	switch kind {
	case record.KindAmount:
		amount, _ := record.CoerceAmount(raw).Float64()
		return displayPrinter.Sprintf("$%v",
			number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	case record.KindDate:
		if s, ok := raw.(string); ok {
			iso := record.NormalizeDate(s)
			if t, err := time.Parse(record.ISODate, iso); err == nil {
				return t.Format(displayDateLayout)
			}
			return s
		}
		return fmt.Sprint(raw)
	default:
		return fmt.Sprint(raw)
	}
}
