package models

import "time"

// RawRecord holds the unprocessed fields of one XML element, keyed by child
// tag name. Values are trimmed text; a missing key means the field was
// absent from the source element.
type RawRecord map[string]string

// Get returns the raw value for a field, or "" when the field is absent.
func (r RawRecord) Get(field string) string {
	return r[field]
}

// CleanListing is a normalized captación (listing intake) row.
// Every row has a valid date; rows whose source date could not be parsed
// are dropped during cleaning.
type CleanListing struct {
	Date       time.Time
	Agent      string
	Type       string
	Price      float64
	PriceTotal float64
	Year       int
	Month      int
}

// CleanDemand is a normalized demand row.
type CleanDemand struct {
	Date  time.Time
	Agent string
	Type  string
	Year  int
	Month int
}

// CleanTransaction is a normalized closed operation. Only rows whose raw
// estado is one of the valid closed-deal states (Firmada, Pagado) survive
// cleaning; CommissionTotal is computed from the per-party commission
// components at normalization time.
type CleanTransaction struct {
	OperationCode   string
	Date            time.Time
	Agent           string
	Type            string
	Status          string
	OperationPrice  float64
	CommissionTotal float64
	Year            int
	Month           int
}

// CommissionKind distinguishes the two ways a commission component is
// expressed in the source: a percentage of the operation price, or a flat
// amount in the same currency as the price.
type CommissionKind int

const (
	// FixedAmount is the default: an unrecognized or empty kind tag is
	// treated as a flat fee.
	FixedAmount CommissionKind = iota
	Percentage
)

// CommissionComponent is one party's share of a transaction's commission
// (owner, demander or client), tagged with how its value applies.
type CommissionComponent struct {
	Kind  CommissionKind
	Value float64
}

// Amount resolves the component against the operation price. Zero-valued
// components contribute nothing.
func (c CommissionComponent) Amount(price float64) float64 {
	if c.Value == 0 {
		return 0
	}
	if c.Kind == Percentage {
		return price * c.Value / 100
	}
	return c.Value
}
