package models

// CountSummaryRow is one aggregate row of a listings or demands summary:
// how many rows fell in a (year, month, agent, type) group.
type CountSummaryRow struct {
	Year  int
	Month int
	Agent string
	Type  string
	Count int
}

// CommissionSummaryRow is one aggregate row of the commissions summary:
// total commission and operation count for a (year, month, agent) group.
type CommissionSummaryRow struct {
	Year            int
	Month           int
	Agent           string
	TotalCommission float64
	NumOperations   int
}

// PipelineResult is the bundle handed across the core/presentation
// boundary after one ingestion run: three monthly summaries plus the
// cleaned detail tables they were derived from (the captaciones /
// demandas / comisiones / *_limpio tables). A re-ingestion replaces the
// whole bundle; tables are never mutated after the run that produced them.
type PipelineResult struct {
	ListingSummary    []CountSummaryRow
	DemandSummary     []CountSummaryRow
	CommissionSummary []CommissionSummaryRow

	CleanListings     []CleanListing
	CleanDemands      []CleanDemand
	CleanTransactions []CleanTransaction
}

// CommissionReport holds the KPI figures computed over a commission
// summary for the terminal report and exports.
type CommissionReport struct {
	TotalCommission float64
	NumOperations   int
	AvgPerOperation float64
	LastMonthTotal  float64
	LastMonthYear   int
	LastMonth       int
	BestMonthTotal  float64
	BestMonthYear   int
	BestMonth       int
	Ranking         []AgentTotal
}

// AgentTotal is one entry of the per-agent commission ranking.
type AgentTotal struct {
	Agent           string
	TotalCommission float64
	NumOperations   int
}

// Payroll is the month-by-agent pivot of commission totals (the monthly
// payment sheet). Months are ordered most recent first, agents
// alphabetically; Cells is zero-filled for month/agent pairs with no
// commissions.
type Payroll struct {
	Months []YearMonth
	Agents []string
	// Cells[i][j] is the commission total for Months[i] and Agents[j].
	Cells [][]float64
}

// YearMonth identifies one calendar month.
type YearMonth struct {
	Year  int
	Month int
}
