package core

// workbook.go reads one sheet out of an uploaded .xlsx container and encodes
// partitioned rows back into single-sheet workbooks.
//
// Only cell content crosses over. Styles, merged ranges, formulas and the
// workbook's other sheets are not copied.

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the MIME type of every workbook this package writes.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxColumnWidth caps auto-fitted column widths, in characters.
const maxColumnWidth = 75

// Sheet is a header plus its data rows. Data rows are padded to the header
// width; rows wider than the header keep their extra cells.
type Sheet struct {
	Name   string
	Header Row
	Rows   []Row
}

// ReadSheet loads sheetName from an .xlsx payload. The name must match
// exactly, including case; excelize resolves names case-insensitively, so the
// comparison is done here against the sheet list.
func ReadSheet(data []byte, sheetName string) (*Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &MalformedFileError{Err: err}
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, &MalformedFileError{Err: fmt.Errorf("workbook has no sheets")}
	}
	if !slices.Contains(names, sheetName) {
		return nil, &SheetNotFoundError{Sheet: sheetName, Available: names}
	}

	display, err := f.GetRows(sheetName)
	if err != nil {
		return nil, &MalformedFileError{Err: fmt.Errorf("read sheet %q: %w", sheetName, err)}
	}
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &MalformedFileError{Err: fmt.Errorf("read raw sheet %q: %w", sheetName, err)}
	}

	sheet := &Sheet{Name: sheetName}
	if len(display) == 0 {
		return sheet, nil
	}

	sheet.Header = readRow(f, sheetName, 1, display[0], rowAt(raw, 0))
	width := len(sheet.Header)

	sheet.Rows = make([]Row, 0, len(display)-1)
	for i := 1; i < len(display); i++ {
		row := readRow(f, sheetName, i+1, display[i], rowAt(raw, i))
		for len(row) < width {
			row = append(row, Cell{})
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

func rowAt(grid [][]string, i int) []string {
	if i < len(grid) {
		return grid[i]
	}
	return nil
}

// readRow converts one row of display and raw strings into typed cells.
func readRow(f *excelize.File, sheet string, rowNum int, display, raw []string) Row {
	row := make(Row, len(display))
	for col, shown := range display {
		var rawVal string
		if col < len(raw) {
			rawVal = raw[col]
		}
		row[col] = readCell(f, sheet, col+1, rowNum, shown, rawVal)
	}
	return row
}

// readCell keeps plain numbers and booleans typed. Anything with a display
// format that changes the raw value (dates, currency, percentages) is kept as
// the text the user saw, and numeric-looking strings stay strings.
func readCell(f *excelize.File, sheet string, col, rowNum int, shown, raw string) Cell {
	if shown == "" && raw == "" {
		return Cell{}
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		axis, err := excelize.CoordinatesToCellName(col, rowNum)
		if err == nil {
			typ, err := f.GetCellType(sheet, axis)
			if err == nil {
				switch typ {
				case excelize.CellTypeBool:
					return Cell{Value: shown, Kind: CellBool}
				case excelize.CellTypeUnset, excelize.CellTypeNumber:
					if shown == raw {
						return Cell{Value: raw, Kind: CellNumber}
					}
				}
			}
		}
	}
	return TextCell(shown)
}

// ColumnIndex finds a header column by trimmed, case-insensitive name.
// Returns -1 when absent.
func ColumnIndex(header Row, name string) int {
	want := strings.TrimSpace(name)
	if want == "" {
		return -1
	}
	for i, c := range header {
		if strings.EqualFold(strings.TrimSpace(c.Value), want) {
			return i
		}
	}
	return -1
}

// EncodeWorkbook writes header and rows into a new workbook with a single
// sheet named sheetName and returns the .xlsx bytes. Column widths are fitted
// to the longest value.
func EncodeWorkbook(sheetName string, header Row, rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	if sheetName == "" {
		sheetName = defaultSheet
	}
	if sheetName != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
			return nil, fmt.Errorf("name output sheet %q: %w", sheetName, err)
		}
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return nil, fmt.Errorf("open stream writer: %w", err)
	}

	// Widths must be set before the first SetRow.
	for i, w := range columnWidths(header, rows) {
		if w == 0 {
			continue
		}
		if err := sw.SetColWidth(i+1, i+1, w); err != nil {
			return nil, fmt.Errorf("set width of column %d: %w", i+1, err)
		}
	}

	rowNum := 1
	if header != nil || len(rows) > 0 {
		if err := writeRow(sw, rowNum, header); err != nil {
			return nil, err
		}
		rowNum++
	}
	for _, row := range rows {
		if err := writeRow(sw, rowNum, row); err != nil {
			return nil, err
		}
		rowNum++
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("flush stream writer: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(sw *excelize.StreamWriter, rowNum int, row Row) error {
	axis, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	values := make([]interface{}, len(row))
	for i, c := range row {
		values[i] = cellValue(c)
	}
	if err := sw.SetRow(axis, values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}

// cellValue maps a Cell to the Go value excelize writes with the right type.
// nil leaves the cell out of the row.
func cellValue(c Cell) interface{} {
	switch c.Kind {
	case CellEmpty:
		return nil
	case CellNumber:
		if n, err := strconv.ParseFloat(c.Value, 64); err == nil {
			return n
		}
	case CellBool:
		return strings.EqualFold(c.Value, "TRUE")
	}
	if c.Value == "" {
		return nil
	}
	return c.Value
}

// columnWidths returns, per column, the longest value in characters plus two,
// capped at maxColumnWidth. Empty columns get 0 and keep the default width.
func columnWidths(header Row, rows []Row) []float64 {
	var longest []int
	measure := func(row Row) {
		for i, c := range row {
			if i >= len(longest) {
				longest = append(longest, make([]int, i-len(longest)+1)...)
			}
			if n := utf8.RuneCountInString(c.Value); n > longest[i] {
				longest[i] = n
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	widths := make([]float64, len(longest))
	for i, n := range longest {
		if n == 0 {
			continue
		}
		widths[i] = float64(min(n+2, maxColumnWidth))
	}
	return widths
}
