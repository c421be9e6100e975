package render_test

import (
	"testing"
	"time"

	"github.com/finvoy/spendsheet/internal/domain/record"
	"github.com/finvoy/spendsheet/internal/render"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func fieldByName(t *testing.T, fields []render.Field, name string) render.Field {
	t.Helper()
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %q not found", name)
	return render.Field{}
}

func TestFormFields_AddModeDefaults(t *testing.T) {
	fields := render.FormFields([]string{"date", "description", "amount"}, nil, testNow)
	require.Len(t, fields, 3)

	require.Equal(t, "2024-06-15", fieldByName(t, fields, "date").Value)
	require.Equal(t, "0", fieldByName(t, fields, "amount").Value)
	require.Equal(t, "", fieldByName(t, fields, "description").Value)
}

func TestFormFields_FallsBackToBuiltinColumns(t *testing.T) {
	fields := render.FormFields(nil, nil, testNow)
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	require.Equal(t, []string{"date", "description", "amount", "category", "notes"}, names)
	require.True(t, fieldByName(t, fields, "notes").Multiline)
}

func TestFormFields_EditModeNormalizesDates(t *testing.T) {
	// Property: whatever the sheet holds, the form presents ISO dates.
	for _, stored := range []string{"2024-03-01", "01.03.2024", "01/03/2024", "01-03-2024"} {
		f := record.NewFields()
		f.Set("date", stored)
		f.Set("amount", "$1,200.00")
		rec := record.Record{Row: 5, Fields: f}

		fields := render.FormFields(nil, &rec, testNow)
		require.Equal(t, "2024-03-01", fieldByName(t, fields, "date").Value, "stored %q", stored)
		require.Equal(t, "1200", fieldByName(t, fields, "amount").Value)
	}
}

func TestFormFields_RowKeyNeverRendered(t *testing.T) {
	fields := render.FormFields([]string{"date", "row", "amount"}, nil, testNow)
	for _, f := range fields {
		require.NotEqual(t, "row", f.Name)
	}
}

func TestFormFields_SwitchingTargetsDoesNotLeak(t *testing.T) {
	a := record.NewFields()
	a.Set("description", "First")
	first := record.Record{Row: 2, Fields: a}

	b := record.NewFields()
	b.Set("description", "Second")
	second := record.Record{Row: 3, Fields: b}

	cols := []string{"description"}
	require.Equal(t, "First", render.FormFields(cols, &first, testNow)[0].Value)
	require.Equal(t, "Second", render.FormFields(cols, &second, testNow)[0].Value)
	// Back to add mode: empty again, nothing carried over.
	require.Equal(t, "", render.FormFields(cols, nil, testNow)[0].Value)
}

func TestWithSubmitted_EchoesUserInput(t *testing.T) {
	fields := render.FormFields([]string{"date", "description", "amount"}, nil, testNow)

	echoed := render.WithSubmitted(fields, map[string]string{
		"date":        "2024-03-01",
		"description": "Coffee",
		"amount":      "abc",
	})

	require.Equal(t, "2024-03-01", fieldByName(t, echoed, "date").Value)
	require.Equal(t, "Coffee", fieldByName(t, echoed, "description").Value)
	// Even a value that failed validation comes back for correction.
	require.Equal(t, "abc", fieldByName(t, echoed, "amount").Value)
	// The originals keep their defaults.
	require.Equal(t, "0", fieldByName(t, fields, "amount").Value)
}

func TestParseSubmission_TypedValues(t *testing.T) {
	fields := render.FormFields([]string{"date", "description", "amount"}, nil, testNow)
	parsed, errs := render.ParseSubmission(fields, map[string]string{
		"date":        "2024-03-01",
		"description": "Coffee",
		"amount":      "4.5",
	})
	require.Empty(t, errs)

	v, _ := parsed.Get("amount")
	require.Equal(t, 4.5, v)
	v, _ = parsed.Get("date")
	require.Equal(t, "2024-03-01", v)
	require.Equal(t, []string{"date", "description", "amount"}, parsed.Columns())
}

func TestParseSubmission_RequiredAndNumeric(t *testing.T) {
	fields := render.FormFields([]string{"description", "amount"}, nil, testNow)

	_, errs := render.ParseSubmission(fields, map[string]string{"description": "", "amount": "4.5"})
	require.Contains(t, errs, "description")

	_, errs = render.ParseSubmission(fields, map[string]string{"description": "x", "amount": "abc"})
	require.Contains(t, errs, "amount")
}
