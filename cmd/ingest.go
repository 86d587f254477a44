package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"inmo-pipeline/config"
	"inmo-pipeline/parser"
	"inmo-pipeline/services"
	"inmo-pipeline/storage"
)

var (
	ingestZip      string
	ingestOut      string
	ingestXLSX     bool
	ingestPostgres bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [source-dir]",
	Short: "Run one ingestion: load XML sources, aggregate, and export",
	Long: `Loads the domain XML files from a source folder (or, with --zip, from
a ZIP archive), runs the cleaning and aggregation pipeline, prints the
commission report, and writes the result bundle as CSV. The payroll
workbook and PostgreSQL persistence are opt-in.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestZip, "zip", "", "ingest from a ZIP archive instead of a folder")
	ingestCmd.Flags().StringVar(&ingestOut, "out", "", "CSV output directory (default: EXPORT_DIR)")
	ingestCmd.Flags().BoolVar(&ingestXLSX, "xlsx", false, "also write the payroll workbook (PAYROLL_XLSX_PATH)")
	ingestCmd.Flags().BoolVar(&ingestPostgres, "postgres", false, "also persist the summaries to PostgreSQL")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	loader := parser.NewLoader(logger)

	var tables *parser.RawTables
	var err error
	if ingestZip != "" {
		data, rerr := os.ReadFile(ingestZip)
		if rerr != nil {
			return fmt.Errorf("read archive: %w", rerr)
		}
		logger.Info("Ingesting ZIP archive %s", ingestZip)
		tables, err = loader.LoadZip(data)
	} else {
		dir := cfg.DataDir
		if len(args) > 0 {
			dir = args[0]
		}
		logger.Info("Ingesting folder %s", dir)
		tables, err = loader.LoadFolder(dir)
	}
	if err != nil {
		return err
	}

	pipeline := services.NewPipeline(logger)
	result := pipeline.Run(tables.Listings, tables.Demands, tables.Transactions)

	reportSvc := services.NewReportService(logger)
	reportSvc.Print(reportSvc.CommissionKPIs(result.CommissionSummary))
	payroll := reportSvc.BuildPayroll(result.CommissionSummary)

	outDir := ingestOut
	if outDir == "" {
		outDir = cfg.ExportDir
	}
	exporter := storage.NewCSVExporter(outDir, cfg.ExportWorkers, logger)
	if err := exporter.Write(result); err != nil {
		logger.Error("CSV export failed: %v", err)
	}
	if err := exporter.WritePayroll(payroll); err != nil {
		logger.Error("Payroll CSV export failed: %v", err)
	}

	if ingestXLSX {
		if err := storage.NewExcelWriter(cfg.PayrollPath).WriteWorkbook(payroll, result.CommissionSummary); err != nil {
			logger.Error("Payroll workbook export failed: %v", err)
		} else {
			logger.Info("Payroll workbook written to %s", cfg.PayrollPath)
		}
	}

	if ingestPostgres {
		pw, err := storage.NewPostgresWriter(cfg.DSN(), logger)
		if err != nil {
			logger.Error("PostgreSQL connection failed: %v", err)
		} else {
			defer pw.Close()
			if err := pw.Write(result); err != nil {
				logger.Error("PostgreSQL write failed: %v", err)
			} else {
				logger.Info("Summaries stored in PostgreSQL")
			}
		}
	}

	return nil
}
