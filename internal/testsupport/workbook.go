package testsupport

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

// SheetData describes one sheet of a fixture workbook. Rows are written from
// A1 down; nil values leave the cell empty.
type SheetData struct {
	Name string
	Rows [][]any
}

// BuildWorkbook returns the .xlsx bytes of a workbook holding sheets in order.
func BuildWorkbook(t testing.TB, sheets ...SheetData) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sd := range sheets {
		if i == 0 {
			if sd.Name != "Sheet1" {
				if err := f.SetSheetName("Sheet1", sd.Name); err != nil {
					t.Fatalf("rename first sheet to %q: %v", sd.Name, err)
				}
			}
		} else if _, err := f.NewSheet(sd.Name); err != nil {
			t.Fatalf("add sheet %q: %v", sd.Name, err)
		}

		for r, values := range sd.Rows {
			for c, v := range values {
				if v == nil {
					continue
				}
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := f.SetCellValue(sd.Name, axis, v); err != nil {
					t.Fatalf("set %s!%s: %v", sd.Name, axis, err)
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// ReadRows opens an .xlsx payload and returns the display values of sheet.
func ReadRows(t testing.TB, data []byte, sheet string) [][]string {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("read sheet %q: %v", sheet, err)
	}
	return rows
}

// SheetNames returns the sheet list of an .xlsx payload.
func SheetNames(t testing.TB, data []byte) []string {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	return f.GetSheetList()
}
