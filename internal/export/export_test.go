package export_test

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/finvoy/spendsheet/internal/domain/record"
	"github.com/finvoy/spendsheet/internal/export"
	"github.com/stretchr/testify/require"
)

func TestWorkbook_LayoutMirrorsSheet(t *testing.T) {
	a := record.NewFields()
	a.Set("date", "2024-03-01")
	a.Set("description", "Coffee")
	a.Set("amount", "$4.50")

	b := record.NewFields()
	b.Set("date", "2024-03-02")
	b.Set("description", "Taxi")
	b.Set("notes", "cash")

	f, err := export.Workbook([]record.Record{
		{Row: 2, Fields: a},
		{Row: 3, Fields: b},
	})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Records")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)

	require.Equal(t, []string{"date", "description", "amount", "notes"}, rows[0])

	cell, err := f.GetCellValue("Records", "B2")
	require.NoError(t, err)
	require.Equal(t, "Coffee", cell)

	// Amounts land as numbers, stripped of currency noise.
	amount, err := f.GetCellValue("Records", "C2")
	require.NoError(t, err)
	require.Equal(t, "4.5", amount)

	cell, err = f.GetCellValue("Records", "D3")
	require.NoError(t, err)
	require.Equal(t, "cash", cell)
}

func TestWriteTo_ProducesReadableWorkbook(t *testing.T) {
	a := record.NewFields()
	a.Set("date", "2024-03-01")
	a.Set("description", "Coffee")

	var buf bytes.Buffer
	require.NoError(t, export.WriteTo(&buf, []record.Record{{Row: 2, Fields: a}}))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	cell, err := f.GetCellValue("Records", "B2")
	require.NoError(t, err)
	require.Equal(t, "Coffee", cell)
}

func TestWorkbook_EmptyCollection(t *testing.T) {
	f, err := export.Workbook(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Records")
	require.NoError(t, err)
	require.Empty(t, rows)
}
