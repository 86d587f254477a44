package storage

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"inmo-pipeline/models"
)

func TestExcelWriterWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hoja_pago.xlsx")

	payroll := &models.Payroll{
		Months: []models.YearMonth{{Year: 2025, Month: 3}},
		Agents: []string{"Ana"},
		Cells:  [][]float64{{4000}},
	}
	summary := []models.CommissionSummaryRow{
		{Year: 2025, Month: 3, Agent: "Ana", TotalCommission: 4000, NumOperations: 1},
	}

	if err := NewExcelWriter(path).WriteWorkbook(payroll, summary); err != nil {
		t.Fatalf("WriteWorkbook returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Hoja de pago", "A2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "2025-03" {
		t.Errorf("payroll month cell: got %q, want %q", got, "2025-03")
	}

	got, err = f.GetCellValue("Comisiones", "C2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "Ana" {
		t.Errorf("summary agent cell: got %q, want %q", got, "Ana")
	}
}
