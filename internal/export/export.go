// Package export writes a fetched collection to a local .xlsx snapshot,
// mirroring the backing sheet's layout: a header row followed by the data
// rows in first-seen column order.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/finvoy/spendsheet/internal/domain/record"
)

const sheetName = "Records"

// Workbook builds an in-memory workbook from a collection.
func Workbook(records []record.Record) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	columns := record.Columns(records)
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, record.HeaderRow)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, err
		}
	}

	for _, rec := range records {
		for i, col := range columns {
			raw, ok := rec.Fields.Get(col)
			if !ok || raw == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+1, rec.Row)
			if err != nil {
				return nil, err
			}
			value := raw
			if record.Classify(col, raw) == record.KindAmount {
				value, _ = record.CoerceAmount(raw).Float64()
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// WriteTo streams a snapshot of the collection as .xlsx bytes.
func WriteTo(w io.Writer, records []record.Record) error {
	f, err := Workbook(records)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
