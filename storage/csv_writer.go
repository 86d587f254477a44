package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"inmo-pipeline/models"
	"inmo-pipeline/utils"
)

// CSVExporter writes the six bundle tables (and optionally the payment
// sheet) as CSV files under an output directory. The per-table writes are
// independent, so they fan out on a worker pool.
type CSVExporter struct {
	outDir  string
	workers int
	logger  *utils.Logger
}

// NewCSVExporter creates a CSVExporter targeting the given directory.
// Intermediate directories are created on first write.
func NewCSVExporter(outDir string, workers int, logger *utils.Logger) *CSVExporter {
	if workers < 1 {
		workers = 1
	}
	return &CSVExporter{outDir: outDir, workers: workers, logger: logger}
}

// Write exports every table of the bundle, one CSV file per table.
func (e *CSVExporter) Write(result *models.PipelineResult) error {
	if err := os.MkdirAll(e.outDir, 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	jobs := []struct {
		name  string
		write func(w *csv.Writer) error
	}{
		{"captaciones.csv", func(w *csv.Writer) error { return writeCountSummary(w, "num_inmuebles", result.ListingSummary) }},
		{"demandas.csv", func(w *csv.Writer) error { return writeCountSummary(w, "num_demandas", result.DemandSummary) }},
		{"comisiones.csv", func(w *csv.Writer) error { return writeCommissionSummary(w, result.CommissionSummary) }},
		{"inmuebles_limpio.csv", func(w *csv.Writer) error { return writeCleanListings(w, result.CleanListings) }},
		{"demandas_limpio.csv", func(w *csv.Writer) error { return writeCleanDemands(w, result.CleanDemands) }},
		{"operaciones_limpio.csv", func(w *csv.Writer) error { return writeCleanTransactions(w, result.CleanTransactions) }},
	}

	pool := utils.NewWorkerPool(e.workers)
	var mu sync.Mutex
	var errs []error

	for _, job := range jobs {
		name, write := job.name, job.write
		pool.Submit(func() {
			if err := e.writeFile(name, write); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			e.logger.Debug("[export] Wrote %s", name)
		})
	}
	pool.Wait()

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	e.logger.Info("[export] Result bundle written to %s", e.outDir)
	return nil
}

// WritePayroll exports the month×agent payment sheet as hoja_pago.csv.
func (e *CSVExporter) WritePayroll(payroll *models.Payroll) error {
	if err := os.MkdirAll(e.outDir, 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}
	return e.writeFile("hoja_pago.csv", func(w *csv.Writer) error {
		header := append([]string{"mes"}, payroll.Agents...)
		if err := w.Write(header); err != nil {
			return err
		}
		for i, ym := range payroll.Months {
			row := make([]string, 0, len(payroll.Agents)+1)
			row = append(row, fmt.Sprintf("%04d-%02d", ym.Year, ym.Month))
			for _, v := range payroll.Cells[i] {
				row = append(row, formatMoney(v))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close satisfies ResultWriter; files are opened and closed per write.
func (e *CSVExporter) Close() error { return nil }

func (e *CSVExporter) writeFile(name string, write func(w *csv.Writer) error) error {
	f, err := os.Create(filepath.Join(e.outDir, name))
	if err != nil {
		return fmt.Errorf("csv: create %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := write(w); err != nil {
		return fmt.Errorf("csv: write %s: %w", name, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush %s: %w", name, err)
	}
	return nil
}

func writeCountSummary(w *csv.Writer, measure string, rows []models.CountSummaryRow) error {
	if err := w.Write([]string{"año", "mes", "agente", "tipo", measure}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			strconv.Itoa(r.Year), strconv.Itoa(r.Month), r.Agent, r.Type, strconv.Itoa(r.Count),
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeCommissionSummary(w *csv.Writer, rows []models.CommissionSummaryRow) error {
	if err := w.Write([]string{"año", "mes", "agente", "total_comision", "num_ops"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			strconv.Itoa(r.Year), strconv.Itoa(r.Month), r.Agent,
			formatMoney(r.TotalCommission), strconv.Itoa(r.NumOperations),
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeCleanListings(w *csv.Writer, rows []models.CleanListing) error {
	if err := w.Write([]string{"fecha", "agente", "tipo", "precio", "precio_total", "año", "mes"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			r.Date.Format(time.DateOnly), r.Agent, r.Type,
			formatMoney(r.Price), formatMoney(r.PriceTotal),
			strconv.Itoa(r.Year), strconv.Itoa(r.Month),
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeCleanDemands(w *csv.Writer, rows []models.CleanDemand) error {
	if err := w.Write([]string{"fecha", "agente", "tipo", "año", "mes"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			r.Date.Format(time.DateOnly), r.Agent, r.Type,
			strconv.Itoa(r.Year), strconv.Itoa(r.Month),
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeCleanTransactions(w *csv.Writer, rows []models.CleanTransaction) error {
	if err := w.Write([]string{
		"cod_operacion", "fecha", "agente", "tipo", "estado",
		"precio_operacion", "comision_total", "año", "mes",
	}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			r.OperationCode, r.Date.Format(time.DateOnly), r.Agent, r.Type, r.Status,
			formatMoney(r.OperationPrice), formatMoney(r.CommissionTotal),
			strconv.Itoa(r.Year), strconv.Itoa(r.Month),
		}); err != nil {
			return err
		}
	}
	return nil
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
