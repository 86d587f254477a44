package storage

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"inmo-pipeline/models"
)

// ExcelWriter saves the monthly payment sheet as a workbook, the format
// the office actually opens. One sheet holds the month×agent payroll
// pivot, a second the commission summary it was built from.
type ExcelWriter struct {
	path string
}

// NewExcelWriter creates an ExcelWriter targeting the given .xlsx path.
func NewExcelWriter(path string) *ExcelWriter {
	return &ExcelWriter{path: path}
}

// WriteWorkbook writes the payroll pivot and the commission summary.
func (e *ExcelWriter) WriteWorkbook(payroll *models.Payroll, summary []models.CommissionSummaryRow) error {
	f := excelize.NewFile()
	defer f.Close()

	const payrollSheet = "Hoja de pago"
	if err := f.SetSheetName("Sheet1", payrollSheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	if err := e.writePayrollSheet(f, payrollSheet, payroll); err != nil {
		return err
	}

	const summarySheet = "Comisiones"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("xlsx: create sheet: %w", err)
	}
	if err := e.writeSummarySheet(f, summarySheet, summary); err != nil {
		return err
	}

	if err := f.SaveAs(e.path); err != nil {
		return fmt.Errorf("xlsx: save %s: %w", e.path, err)
	}
	return nil
}

func (e *ExcelWriter) writePayrollSheet(f *excelize.File, sheet string, payroll *models.Payroll) error {
	if err := setRow(f, sheet, 1, append([]interface{}{"Mes"}, toCells(payroll.Agents)...)); err != nil {
		return err
	}
	for i, ym := range payroll.Months {
		row := make([]interface{}, 0, len(payroll.Agents)+1)
		row = append(row, fmt.Sprintf("%04d-%02d", ym.Year, ym.Month))
		for _, v := range payroll.Cells[i] {
			row = append(row, v)
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (e *ExcelWriter) writeSummarySheet(f *excelize.File, sheet string, summary []models.CommissionSummaryRow) error {
	header := []interface{}{"Año", "Mes", "Agente", "Comisión total", "Nº operaciones"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, r := range summary {
		row := []interface{}{r.Year, r.Month, r.Agent, r.TotalCommission, r.NumOperations}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("xlsx: cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("xlsx: set %s: %w", cell, err)
		}
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
