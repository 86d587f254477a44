package services

import (
	"inmo-pipeline/models"
	"inmo-pipeline/utils"
)

// Pipeline wires normalizer → commission calculation → aggregator and
// produces the result bundle for one ingestion run. The run is
// synchronous and single-threaded; each stage consumes its predecessor's
// output as an immutable input.
type Pipeline struct {
	logger     *utils.Logger
	normalizer *Normalizer
	aggregator *Aggregator
}

// NewPipeline creates a Pipeline with the given logger.
func NewPipeline(logger *utils.Logger) *Pipeline {
	return &Pipeline{
		logger:     logger,
		normalizer: NewNormalizer(logger),
		aggregator: NewAggregator(logger),
	}
}

// Run cleans and aggregates the raw rows of up to three domains. Any
// domain may be nil: it degrades to empty cleaned and summary tables with
// their schemas intact, never to an error — the only fatal failures in an
// ingestion happen earlier, at extraction.
func (p *Pipeline) Run(listings, demands, transactions []models.RawRecord) *models.PipelineResult {
	cleanListings := p.normalizer.CleanListings(listings)
	cleanDemands := p.normalizer.CleanDemands(demands)
	cleanTransactions := p.normalizer.CleanTransactions(transactions)

	result := &models.PipelineResult{
		ListingSummary:    p.aggregator.SummarizeListings(cleanListings),
		DemandSummary:     p.aggregator.SummarizeDemands(cleanDemands),
		CommissionSummary: p.aggregator.SummarizeCommissions(cleanTransactions),
		CleanListings:     cleanListings,
		CleanDemands:      cleanDemands,
		CleanTransactions: cleanTransactions,
	}

	p.logger.Info("[pipeline] Run complete — %d listings, %d demands, %d operations cleaned",
		len(cleanListings), len(cleanDemands), len(cleanTransactions))
	return result
}
