package storage

import "inmo-pipeline/models"

// ResultWriter is the interface any export backend for the result bundle
// must satisfy.
type ResultWriter interface {
	Write(result *models.PipelineResult) error
	Close() error
}

// PayrollWriter persists the monthly payment sheet.
type PayrollWriter interface {
	WritePayroll(payroll *models.Payroll) error
}
