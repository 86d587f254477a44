package services

import (
	"sort"

	"inmo-pipeline/models"
	"inmo-pipeline/utils"
)

// groupKey is the composite grouping key for the monthly summaries.
// Commission rows group without a type; their key carries an empty Type.
type groupKey struct {
	Year  int
	Month int
	Agent string
	Type  string
}

func (k groupKey) less(o groupKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	if k.Month != o.Month {
		return k.Month < o.Month
	}
	if k.Agent != o.Agent {
		return k.Agent < o.Agent
	}
	return k.Type < o.Type
}

// Aggregator derives the monthly summary tables from cleaned rows.
// Grouping is an explicit map keyed by the composite tuple with the keys
// sorted before emission, so output order is deterministic and never
// depends on map iteration.
type Aggregator struct {
	logger *utils.Logger
}

// NewAggregator creates an Aggregator with the given logger.
func NewAggregator(logger *utils.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// SummarizeListings counts cleaned listings per (year, month, agent, type).
func (a *Aggregator) SummarizeListings(rows []models.CleanListing) []models.CountSummaryRow {
	counts := make(map[groupKey]int, len(rows))
	for _, r := range rows {
		counts[groupKey{r.Year, r.Month, r.Agent, r.Type}]++
	}
	return countRows(counts)
}

// SummarizeDemands counts cleaned demands per (year, month, agent, type).
func (a *Aggregator) SummarizeDemands(rows []models.CleanDemand) []models.CountSummaryRow {
	counts := make(map[groupKey]int, len(rows))
	for _, r := range rows {
		counts[groupKey{r.Year, r.Month, r.Agent, r.Type}]++
	}
	return countRows(counts)
}

// SummarizeCommissions sums commission totals and counts operations per
// (year, month, agent).
func (a *Aggregator) SummarizeCommissions(rows []models.CleanTransaction) []models.CommissionSummaryRow {
	type accum struct {
		total float64
		count int
	}
	groups := make(map[groupKey]*accum, len(rows))
	for _, r := range rows {
		k := groupKey{Year: r.Year, Month: r.Month, Agent: r.Agent}
		g, ok := groups[k]
		if !ok {
			g = &accum{}
			groups[k] = g
		}
		g.total += r.CommissionTotal
		g.count++
	}

	// Always a non-nil table, even with zero rows.
	result := make([]models.CommissionSummaryRow, 0, len(groups))
	for _, k := range sortedKeys(groups) {
		g := groups[k]
		result = append(result, models.CommissionSummaryRow{
			Year:            k.Year,
			Month:           k.Month,
			Agent:           k.Agent,
			TotalCommission: g.total,
			NumOperations:   g.count,
		})
	}
	return result
}

func countRows(counts map[groupKey]int) []models.CountSummaryRow {
	result := make([]models.CountSummaryRow, 0, len(counts))
	for _, k := range sortedKeys(counts) {
		result = append(result, models.CountSummaryRow{
			Year:  k.Year,
			Month: k.Month,
			Agent: k.Agent,
			Type:  k.Type,
			Count: counts[k],
		})
	}
	return result
}

func sortedKeys[V any](m map[groupKey]V) []groupKey {
	keys := make([]groupKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}
