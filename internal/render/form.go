// Package render derives editable field sets and display tables from
// observed record collections. Nothing here is declared statically; the
// column set is data, rediscovered on every call.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/finvoy/spendsheet/internal/domain/record"
)

// defaultColumns seed a form when neither observed columns nor an existing
// record are available (fresh sheet, nothing fetched yet).
var defaultColumns = []string{"date", "description", "amount", "category", "notes"}

// Field is one editable input derived from a column.
type Field struct {
	Name      string
	Kind      record.Kind
	Value     string
	Multiline bool
}

// FormFields derives the editable field set for add or edit mode. Columns
// come from the caller's observed set, else from the existing record, else
// from the built-in defaults; the reserved row key is never rendered. Seeds:
// today for empty date fields, zero for empty amounts, empty string
// otherwise. Each call derives everything from scratch, so switching edit
// targets can never leak a previous record's values.
func FormFields(columns []string, existing *record.Record, now time.Time) []Field {
	cols := formColumns(columns, existing)

	fields := make([]Field, 0, len(cols))
	for _, col := range cols {
		var raw any
		var present bool
		if existing != nil {
			raw, present = existing.Fields.Get(col)
		}

		kind := record.Classify(col, raw)
		var value string
		if present {
			value = formValueString(col, raw)
		} else {
			value = defaultValue(kind, now)
		}

		fields = append(fields, Field{
			Name:      col,
			Kind:      kind,
			Value:     value,
			Multiline: kind == record.KindText && strings.Contains(strings.ToLower(col), "note"),
		})
	}
	return fields
}

func formColumns(columns []string, existing *record.Record) []string {
	var cols []string
	switch {
	case len(columns) > 0:
		cols = columns
	case existing != nil:
		cols = existing.Fields.Columns()
	default:
		cols = defaultColumns
	}

	out := make([]string, 0, len(cols))
	for _, col := range cols {
		if col != record.RowKey {
			out = append(out, col)
		}
	}
	return out
}

func defaultValue(kind record.Kind, now time.Time) string {
	switch kind {
	case record.KindDate:
		return now.Format(record.ISODate)
	case record.KindAmount:
		return "0"
	default:
		return ""
	}
}

func formValueString(col string, raw any) string {
	switch v := record.FormValue(col, raw).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// WithSubmitted re-seeds a field set with the values the user just typed so
// a failed validation round-trips their input instead of resetting the form.
func WithSubmitted(fields []Field, submitted map[string]string) []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	for i := range out {
		if v, ok := submitted[out[i].Name]; ok {
			out[i].Value = v
		}
	}
	return out
}

// FieldErrors maps column name to a validation message.
type FieldErrors map[string]string

// ParseSubmission converts submitted form values back into record fields in
// column order. Every rendered column is required; amounts are sent as
// numbers, dates as the ISO string the input produced, everything else
// verbatim. No store-format coercion happens on write; the backend owns its
// own formatting.
func ParseSubmission(fields []Field, submitted map[string]string) (record.Fields, FieldErrors) {
	out := record.NewFields()
	errs := FieldErrors{}

	for _, field := range fields {
		value := strings.TrimSpace(submitted[field.Name])
		if value == "" {
			errs[field.Name] = fmt.Sprintf("%s is required", field.Name)
			continue
		}
		if field.Kind == record.KindAmount {
			num, err := strconv.ParseFloat(value, 64)
			if err != nil {
				errs[field.Name] = fmt.Sprintf("%s must be a number", field.Name)
				continue
			}
			out.Set(field.Name, num)
			continue
		}
		out.Set(field.Name, value)
	}

	if len(errs) > 0 {
		return record.Fields{}, errs
	}
	return out, nil
}
