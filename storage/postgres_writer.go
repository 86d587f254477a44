package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"inmo-pipeline/models"
	"inmo-pipeline/utils"
)

// PostgresWriter persists the monthly summary tables to PostgreSQL so the
// presentation layer can read them without re-ingesting. A write replaces
// the previous run's rows wholesale, mirroring the bundle's
// replace-on-re-ingestion contract.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 5, BaseDelay: 2 * time.Second, Logger: logger}
	if err := retry.Do("postgres ping", db.Ping); err != nil {
		return nil, err
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS resumen_captaciones (
			id       SERIAL PRIMARY KEY,
			anio     INT          NOT NULL,
			mes      INT          NOT NULL,
			agente   TEXT         NOT NULL,
			tipo     TEXT         NOT NULL,
			num_inmuebles INT     NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS resumen_demandas (
			id       SERIAL PRIMARY KEY,
			anio     INT          NOT NULL,
			mes      INT          NOT NULL,
			agente   TEXT         NOT NULL,
			tipo     TEXT         NOT NULL,
			num_demandas INT      NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS resumen_comisiones (
			id       SERIAL PRIMARY KEY,
			anio     INT          NOT NULL,
			mes      INT          NOT NULL,
			agente   TEXT         NOT NULL,
			total_comision NUMERIC(12,2) NOT NULL DEFAULT 0,
			num_ops  INT          NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_captaciones_periodo ON resumen_captaciones(anio, mes);
		CREATE INDEX IF NOT EXISTS idx_demandas_periodo    ON resumen_demandas(anio, mes);
		CREATE INDEX IF NOT EXISTS idx_comisiones_periodo  ON resumen_comisiones(anio, mes);
		CREATE INDEX IF NOT EXISTS idx_comisiones_agente   ON resumen_comisiones(agente);
	`)
	return err
}

// Clear deletes the previous run's summary rows.
func (pw *PostgresWriter) Clear() error {
	for _, table := range []string{"resumen_captaciones", "resumen_demandas", "resumen_comisiones"} {
		if _, err := pw.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("postgres: clear %s: %w", table, err)
		}
	}
	return nil
}

// Write replaces the stored summaries with the bundle's, batch-inserting
// each table.
func (pw *PostgresWriter) Write(result *models.PipelineResult) error {
	if err := pw.Clear(); err != nil {
		return err
	}
	if err := pw.insertCounts("resumen_captaciones", "num_inmuebles", result.ListingSummary); err != nil {
		return err
	}
	if err := pw.insertCounts("resumen_demandas", "num_demandas", result.DemandSummary); err != nil {
		return err
	}
	return pw.insertCommissions(result.CommissionSummary)
}

const insertBatchSize = 50

func (pw *PostgresWriter) insertCounts(table, measure string, rows []models.CountSummaryRow) error {
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))
		batch := rows[start:end]

		valueStrings := make([]string, 0, len(batch))
		valueArgs := make([]interface{}, 0, len(batch)*5)
		for idx, r := range batch {
			base := idx * 5
			valueStrings = append(valueStrings,
				fmt.Sprintf("($%d,$%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4, base+5))
			valueArgs = append(valueArgs, r.Year, r.Month, r.Agent, r.Type, r.Count)
		}

		query := fmt.Sprintf("INSERT INTO %s (anio, mes, agente, tipo, %s) VALUES %s",
			table, measure, strings.Join(valueStrings, ","))
		if _, err := pw.db.Exec(query, valueArgs...); err != nil {
			return fmt.Errorf("postgres: insert %s: %w", table, err)
		}
	}
	return nil
}

func (pw *PostgresWriter) insertCommissions(rows []models.CommissionSummaryRow) error {
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))
		batch := rows[start:end]

		valueStrings := make([]string, 0, len(batch))
		valueArgs := make([]interface{}, 0, len(batch)*5)
		for idx, r := range batch {
			base := idx * 5
			valueStrings = append(valueStrings,
				fmt.Sprintf("($%d,$%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4, base+5))
			valueArgs = append(valueArgs, r.Year, r.Month, r.Agent, r.TotalCommission, r.NumOperations)
		}

		query := "INSERT INTO resumen_comisiones (anio, mes, agente, total_comision, num_ops) VALUES " +
			strings.Join(valueStrings, ",")
		if _, err := pw.db.Exec(query, valueArgs...); err != nil {
			return fmt.Errorf("postgres: insert resumen_comisiones: %w", err)
		}
	}
	return nil
}

// FetchCommissionSummary retrieves the stored commission summary in
// grouping-key order — used by presentation layers that read from the
// database instead of the in-memory bundle.
func (pw *PostgresWriter) FetchCommissionSummary() ([]models.CommissionSummaryRow, error) {
	rows, err := pw.db.Query(`
		SELECT anio, mes, agente, total_comision, num_ops
		FROM resumen_comisiones
		ORDER BY anio, mes, agente
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch commissions: %w", err)
	}
	defer rows.Close()

	result := make([]models.CommissionSummaryRow, 0)
	for rows.Next() {
		var r models.CommissionSummaryRow
		if err := rows.Scan(&r.Year, &r.Month, &r.Agent, &r.TotalCommission, &r.NumOperations); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
