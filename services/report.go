package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"inmo-pipeline/models"
	"inmo-pipeline/utils"
)

// ReportService computes the commission KPIs and the monthly payment
// sheet over an aggregated commission summary.
type ReportService struct {
	logger *utils.Logger
}

// NewReportService creates a ReportService with the given logger.
func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// CommissionKPIs derives the headline figures: overall totals, average
// per operation, the latest month's total, the best month and the
// per-agent ranking.
func (s *ReportService) CommissionKPIs(summary []models.CommissionSummaryRow) *models.CommissionReport {
	report := &models.CommissionReport{Ranking: []models.AgentTotal{}}
	if len(summary) == 0 {
		return report
	}

	monthTotals := make(map[models.YearMonth]float64)
	agentTotals := make(map[string]*models.AgentTotal)

	for _, row := range summary {
		report.TotalCommission += row.TotalCommission
		report.NumOperations += row.NumOperations
		monthTotals[models.YearMonth{Year: row.Year, Month: row.Month}] += row.TotalCommission

		at, ok := agentTotals[row.Agent]
		if !ok {
			at = &models.AgentTotal{Agent: row.Agent}
			agentTotals[row.Agent] = at
		}
		at.TotalCommission += row.TotalCommission
		at.NumOperations += row.NumOperations
	}

	if report.NumOperations > 0 {
		report.AvgPerOperation = round2(report.TotalCommission / float64(report.NumOperations))
	}

	// Walk months in calendar order so the best-month tie break
	// (earliest wins) stays deterministic.
	months := sortedMonths(monthTotals)
	last := months[len(months)-1]
	report.LastMonthYear, report.LastMonth = last.Year, last.Month
	report.LastMonthTotal = monthTotals[last]
	for _, ym := range months {
		if monthTotals[ym] > report.BestMonthTotal {
			report.BestMonthTotal = monthTotals[ym]
			report.BestMonthYear, report.BestMonth = ym.Year, ym.Month
		}
	}

	for _, at := range agentTotals {
		report.Ranking = append(report.Ranking, *at)
	}
	sort.Slice(report.Ranking, func(i, j int) bool {
		if report.Ranking[i].TotalCommission != report.Ranking[j].TotalCommission {
			return report.Ranking[i].TotalCommission > report.Ranking[j].TotalCommission
		}
		return report.Ranking[i].Agent < report.Ranking[j].Agent
	})

	return report
}

// BuildPayroll pivots a commission summary into the month×agent payment
// sheet: months most recent first, agents alphabetical, empty cells
// zero-filled.
func (s *ReportService) BuildPayroll(summary []models.CommissionSummaryRow) *models.Payroll {
	cells := make(map[models.YearMonth]map[string]float64)
	agentSet := make(map[string]struct{})

	for _, row := range summary {
		ym := models.YearMonth{Year: row.Year, Month: row.Month}
		if cells[ym] == nil {
			cells[ym] = make(map[string]float64)
		}
		cells[ym][row.Agent] += row.TotalCommission
		agentSet[row.Agent] = struct{}{}
	}

	months := sortedMonths(cells)
	// Most recent month on top, like the payment sheet the office reads.
	for i, j := 0, len(months)-1; i < j; i, j = i+1, j-1 {
		months[i], months[j] = months[j], months[i]
	}

	agents := make([]string, 0, len(agentSet))
	for a := range agentSet {
		agents = append(agents, a)
	}
	sort.Strings(agents)

	payroll := &models.Payroll{
		Months: months,
		Agents: agents,
		Cells:  make([][]float64, len(months)),
	}
	for i, ym := range months {
		payroll.Cells[i] = make([]float64, len(agents))
		for j, agent := range agents {
			payroll.Cells[i][j] = cells[ym][agent]
		}
	}
	return payroll
}

// FilterCommissionByPeriod keeps summary rows in the inclusive
// [from, to] month range.
func FilterCommissionByPeriod(summary []models.CommissionSummaryRow, from, to models.YearMonth) []models.CommissionSummaryRow {
	result := make([]models.CommissionSummaryRow, 0, len(summary))
	for _, row := range summary {
		ym := models.YearMonth{Year: row.Year, Month: row.Month}
		if !ymLess(ym, from) && !ymLess(to, ym) {
			result = append(result, row)
		}
	}
	return result
}

// FilterCommissionByAgents keeps summary rows for the named agents.
func FilterCommissionByAgents(summary []models.CommissionSummaryRow, agents []string) []models.CommissionSummaryRow {
	keep := make(map[string]struct{}, len(agents))
	for _, a := range agents {
		keep[a] = struct{}{}
	}
	result := make([]models.CommissionSummaryRow, 0, len(summary))
	for _, row := range summary {
		if _, ok := keep[row.Agent]; ok {
			result = append(result, row)
		}
	}
	return result
}

// FilterCountsByPeriod keeps count-summary rows in the inclusive
// [from, to] month range.
func FilterCountsByPeriod(summary []models.CountSummaryRow, from, to models.YearMonth) []models.CountSummaryRow {
	result := make([]models.CountSummaryRow, 0, len(summary))
	for _, row := range summary {
		ym := models.YearMonth{Year: row.Year, Month: row.Month}
		if !ymLess(ym, from) && !ymLess(to, ym) {
			result = append(result, row)
		}
	}
	return result
}

// Print renders the KPI report to the terminal.
func (s *ReportService) Print(r *models.CommissionReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  💰 COMISIONES — RESUMEN\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Totales\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Comisión total       : \033[1;32m€%.2f\033[0m\n", r.TotalCommission)
	fmt.Printf("  Nº operaciones       : \033[1m%d\033[0m\n", r.NumOperations)
	fmt.Printf("  Media por operación  : \033[1;32m€%.2f\033[0m\n", r.AvgPerOperation)
	fmt.Println()

	fmt.Printf("\033[1;33m  Meses\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.NumOperations == 0 {
		fmt.Printf("  Sin operaciones cerradas\n")
	} else {
		fmt.Printf("  Último mes : %s  \033[1;32m€%.2f\033[0m\n",
			monthLabel(r.LastMonthYear, r.LastMonth), r.LastMonthTotal)
		fmt.Printf("  Mejor mes  : %s  \033[1;32m€%.2f\033[0m\n",
			monthLabel(r.BestMonthYear, r.BestMonth), r.BestMonthTotal)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Ranking de agentes\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.Ranking) == 0 {
		fmt.Printf("  Sin datos de agentes\n")
	} else {
		for i, at := range r.Ranking {
			fmt.Printf("  \033[1m%d.\033[0m %-24s \033[1;32m€%10.2f\033[0m  (%d ops)\n",
				i+1, truncate(at.Agent, 24), at.TotalCommission, at.NumOperations)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func monthLabel(year, month int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}

func ymLess(a, b models.YearMonth) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	return a.Month < b.Month
}

func sortedMonths[V any](m map[models.YearMonth]V) []models.YearMonth {
	months := make([]models.YearMonth, 0, len(m))
	for ym := range m {
		months = append(months, ym)
	}
	sort.Slice(months, func(i, j int) bool { return ymLess(months[i], months[j]) })
	return months
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
