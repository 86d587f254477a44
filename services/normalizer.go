package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"inmo-pipeline/models"
	"inmo-pipeline/utils"
)

const (
	// DefaultAgent replaces a missing agent; rows are never dropped for it.
	DefaultAgent = "Desconocido"
	// DefaultType replaces a missing operation type.
	DefaultType = "Sin especificar"
)

// validStatuses are the closed-deal states; transactions in any other
// state are excluded from the cleaned table and every aggregate.
var validStatuses = map[string]struct{}{
	"Firmada": {},
	"Pagado":  {},
}

// dateLayouts are tried in order, day-first per the source locale
// (01/02/2025 is the 1st of February).
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// numberJunk matches everything that is not a digit, separator or sign.
var numberJunk = regexp.MustCompile(`[^0-9,.\-+]`)

// Normalizer turns raw per-domain records into the cleaned tables the
// aggregator consumes. Field-level problems never fail a run: bad numbers
// coerce to zero, missing agent/type fall back to defaults, and only an
// unparseable date drops a row.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// CleanListings normalizes raw Inmueble records.
func (n *Normalizer) CleanListings(raw []models.RawRecord) []models.CleanListing {
	result := make([]models.CleanListing, 0, len(raw))

	for _, r := range raw {
		date, ok := ParseDate(r.Get("fechaing"))
		if !ok {
			continue
		}
		result = append(result, models.CleanListing{
			Date:       date,
			Agent:      fallback(Sanitize(r.Get("agente_captador")), DefaultAgent),
			Type:       fallback(Sanitize(r.Get("tipo_operacion")), DefaultType),
			Price:      ParseNumber(r.Get("precio")),
			PriceTotal: ParseNumber(r.Get("precio_total")),
			Year:       date.Year(),
			Month:      int(date.Month()),
		})
	}

	n.logger.Info("[normalizer] Listings: %d raw → %d clean (dropped %d without date)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// CleanDemands normalizes raw Demanda records.
func (n *Normalizer) CleanDemands(raw []models.RawRecord) []models.CleanDemand {
	result := make([]models.CleanDemand, 0, len(raw))

	for _, r := range raw {
		date, ok := ParseDate(r.Get("fec_alta"))
		if !ok {
			continue
		}
		result = append(result, models.CleanDemand{
			Date:  date,
			Agent: fallback(Sanitize(r.Get("captador")), DefaultAgent),
			Type:  fallback(Sanitize(r.Get("tipo_operacion")), DefaultType),
			Year:  date.Year(),
			Month: int(date.Month()),
		})
	}

	n.logger.Info("[normalizer] Demands: %d raw → %d clean (dropped %d without date)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// CleanTransactions normalizes raw Operacion records. Besides the shared
// date/agent/type rules it keeps only closed deals (estado Firmada or
// Pagado) and computes the commission total from the three per-party
// components.
func (n *Normalizer) CleanTransactions(raw []models.RawRecord) []models.CleanTransaction {
	result := make([]models.CleanTransaction, 0, len(raw))
	skippedStatus := 0

	for _, r := range raw {
		status := Sanitize(r.Get("estado"))
		if _, ok := validStatuses[status]; !ok {
			skippedStatus++
			continue
		}

		date, ok := ParseDate(r.Get("fecha"))
		if !ok {
			continue
		}

		price := ParseNumber(r.Get("precio_operacion"))
		result = append(result, models.CleanTransaction{
			OperationCode:   Sanitize(r.Get("cod_operacion")),
			Date:            date,
			Agent:           fallback(Sanitize(r.Get("vendedor")), DefaultAgent),
			Type:            fallback(Sanitize(r.Get("tipo")), DefaultType),
			Status:          status,
			OperationPrice:  price,
			CommissionTotal: CommissionTotal(price, CommissionComponents(r)),
			Year:            date.Year(),
			Month:           int(date.Month()),
		})
	}

	n.logger.Info("[normalizer] Transactions: %d raw → %d clean (%d not closed, %d without date)",
		len(raw), len(result), skippedStatus, len(raw)-len(result)-skippedStatus)
	return result
}

// Sanitize trims a raw value and normalizes the textual null forms
// human-entered exports carry ("null", "None", "NaN") to the empty string.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "null", "none", "nan":
		return ""
	}
	return s
}

// ParseDate parses a sanitized date string day-first. The second return
// is false when the value is missing or matches no known layout; such
// rows are dropped by the cleaners.
func ParseDate(raw string) (time.Time, bool) {
	s := Sanitize(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumber coerces locale-formatted numeric text to a float64.
// Currency symbols and other junk are stripped first. With a comma
// present, dots are thousands separators and the comma is the decimal
// point ("1.234,56" → 1234.56); without one, a single dot is a decimal
// point and repeated dots are thousands separators. Unparseable → 0.
func ParseNumber(raw string) float64 {
	s := Sanitize(raw)
	if s == "" {
		return 0
	}

	s = numberJunk.ReplaceAllString(s, "")
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if strings.Count(s, ".") > 1 {
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
