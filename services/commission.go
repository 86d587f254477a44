package services

import (
	"strings"

	"inmo-pipeline/models"
)

// commissionParties are the three possible shares of a transaction's
// commission, in source field order: tipoCom_<party> carries the kind
// tag, valorCom_<party> the value.
var commissionParties = []string{"propietario", "demandante", "cliente"}

// ParseCommissionKind classifies a free-text kind tag. The source only
// distinguishes the two variants by a percent sign somewhere in the tag,
// in arbitrary casing and whitespace; anything else — including a missing
// tag — is a flat amount.
func ParseCommissionKind(raw string) models.CommissionKind {
	if strings.Contains(strings.ToLower(strings.TrimSpace(raw)), "%") {
		return models.Percentage
	}
	return models.FixedAmount
}

// CommissionComponents reads the three per-party components off a raw
// transaction record. The kind tag is resolved here, once, so everything
// downstream works on the tagged value instead of re-parsing text.
func CommissionComponents(r models.RawRecord) []models.CommissionComponent {
	parts := make([]models.CommissionComponent, 0, len(commissionParties))
	for _, party := range commissionParties {
		parts = append(parts, models.CommissionComponent{
			Kind:  ParseCommissionKind(r.Get("tipoCom_" + party)),
			Value: ParseNumber(r.Get("valorCom_" + party)),
		})
	}
	return parts
}

// CommissionTotal sums the resolved components against the operation
// price. Pure per-row arithmetic; unparseable components arrived here as
// zero values and contribute nothing.
func CommissionTotal(price float64, parts []models.CommissionComponent) float64 {
	var total float64
	for _, p := range parts {
		total += p.Amount(price)
	}
	return total
}
