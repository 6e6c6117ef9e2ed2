package helpers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rebtools/affill/engine"
)

// ============================================================================
// XLSX EXPORT: Tables and chart series as spreadsheets
// ============================================================================

const defaultSheet = "Sheet1"

// WriteTableXLSX writes a table (header row, data rows, summary row) as a
// single-sheet workbook. Number and currency columns are stored as numbers.
func WriteTableXLSX(w io.Writer, table *engine.TableData) error {
	if table == nil {
		return fmt.Errorf("write xlsx: nil table")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(table.Title)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	headers := make([]any, len(table.Columns))
	for i, col := range table.Columns {
		headers[i] = col.Label
	}
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}

	rowNo := 2
	for _, row := range table.Rows {
		values := make([]any, len(row))
		for i, cell := range row {
			values[i] = cellFor(table.Columns, i, cell)
		}
		if err := setRow(f, sheet, rowNo, values); err != nil {
			return err
		}
		rowNo++
	}

	if table.Summary != nil {
		values := make([]any, len(table.Columns))
		values[0] = table.Summary.Label
		for i, col := range table.Columns {
			if v, ok := table.Summary.Values[col.Key]; ok && i > 0 {
				values[i] = v
			}
		}
		if err := setRow(f, sheet, rowNo, values); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// WriteChartXLSX writes chart series as columns: label, then one column per
// series.
func WriteChartXLSX(w io.Writer, chart *engine.ChartConfig) error {
	if chart == nil || len(chart.Series) == 0 {
		return fmt.Errorf("write xlsx: empty chart")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(chart.Title)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	xLabel := chart.XAxis
	if xLabel == "" {
		xLabel = "Label"
	}
	headers := []any{xLabel}
	for _, s := range chart.Series {
		headers = append(headers, s.Name)
	}
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}

	for i, point := range chart.Series[0].Data {
		values := []any{point.Label}
		for _, s := range chart.Series {
			if i < len(s.Data) {
				values = append(values, s.Data[i].Value)
			} else {
				values = append(values, nil)
			}
		}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNo int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write xlsx row %d: %w", rowNo, err)
	}
	return nil
}

// cellFor stores numeric columns as numbers so spreadsheet sums work.
func cellFor(columns []engine.Column, i int, cell string) any {
	if i >= len(columns) || cell == "" {
		return cell
	}
	switch columns[i].Type {
	case "number", "currency":
		if v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64); err == nil {
			return v
		}
	}
	return cell
}

// sheetName makes a title safe for a worksheet name (31 chars, no []:*?/\).
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		return defaultSheet
	}
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}
