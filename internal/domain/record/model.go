package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// HeaderRow is the sheet row occupied by column headers. Data rows start
// immediately below it, so the first record in a fetched collection sits at
// row HeaderRow+1.
const HeaderRow = 1

// FirstDataRow is the sheet row of the first record in a collection.
const FirstDataRow = HeaderRow + 1

// RowKey is the reserved column name that must never appear as a data field.
const RowKey = "row"

// Fields is an ordered column→value mapping. Column sets are not fixed by
// schema: each backing sheet exposes whatever columns its header row has, so
// keys are discovered per fetch and kept in first-seen order.
type Fields struct {
	keys   []string
	values map[string]any
}

// NewFields returns an empty mapping.
func NewFields() Fields {
	return Fields{values: map[string]any{}}
}

// Set stores a value under col, appending col to the key order if unseen.
func (f *Fields) Set(col string, value any) {
	if f.values == nil {
		f.values = map[string]any{}
	}
	if _, ok := f.values[col]; !ok {
		f.keys = append(f.keys, col)
	}
	f.values[col] = value
}

// Get returns the value for col and whether it is present.
func (f Fields) Get(col string) (any, bool) {
	v, ok := f.values[col]
	return v, ok
}

// Columns returns the column names in first-seen order.
func (f Fields) Columns() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Len returns the number of columns.
func (f Fields) Len() int {
	return len(f.keys)
}

// UnmarshalJSON decodes a JSON object preserving key order. Values are kept
// as decoded scalars (string, float64, bool, nil).
func (f *Fields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return &json.UnmarshalTypeError{Value: "non-object", Type: nil}
	}

	*f = NewFields()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", keyTok)
		}

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if num, ok := raw.(json.Number); ok {
			if v, err := num.Float64(); err == nil {
				raw = v
			} else {
				raw = num.String()
			}
		}
		f.Set(key, raw)
	}

	_, err = dec.Token()
	return err
}

// MarshalJSON encodes the mapping as a JSON object in first-seen key order.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(f.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Record is one tabular data row plus its 1-based position in the backing
// sheet. Row is zero for records not yet persisted; fetched records always
// carry the position they had in the fetch result. Row numbers are only
// valid against the most recent fetch.
type Record struct {
	Row    int
	Fields Fields
}

// Columns unions the column names of a collection in first-seen order,
// excluding the reserved row key.
func Columns(records []Record) []string {
	var order []string
	seen := map[string]bool{}
	for _, rec := range records {
		for _, col := range rec.Fields.Columns() {
			if col == RowKey || seen[col] {
				continue
			}
			seen[col] = true
			order = append(order, col)
		}
	}
	return order
}
