package report

import (
	"github.com/google/renameio"
	"github.com/xuri/excelize/v2"
)

const (
	fieldsSheet = "Pernoite"
	countsSheet = "Efetivo"
)

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// XLSX returns s as a workbook with one sheet of fields and one of
// headcounts.
func XLSX(s Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", fieldsSheet); err != nil {
		return nil, err
	}
	rows := [][]interface{}{{"Campo", "Valor"}}
	for _, fl := range s.Fields {
		rows = append(rows, []interface{}{fl.Key, fl.Value})
	}
	if err := setRows(f, fieldsSheet, rows); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(fieldsSheet, "A", "B", 32); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(countsSheet); err != nil {
		return nil, err
	}
	rows = [][]interface{}{{"Grupo", "Categoria", "Total"}}
	for _, c := range s.Counts {
		rows = append(rows, []interface{}{c.Group, c.Category, c.N})
	}
	if err := setRows(f, countsSheet, rows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteXLSX atomically writes the workbook to fn.
func WriteXLSX(fn string, s Summary) error {
	b, err := XLSX(s)
	if err != nil {
		return err
	}
	return renameio.WriteFile(fn, b, 0644)
}
