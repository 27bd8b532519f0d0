package valuation

import (
	"fmt"
	"strconv"
)

// Duty calculation summary entry names used by the service.
const (
	summaryDutyDeminimisApplied = "DUTY_DEMINIMIS_APPLIED"
	summaryRate                 = "RATE"
)

// costLineTypeTax marks cost lines contributing to the effective tax rate.
const costLineTypeTax = "TAX"

// Rates holds the effective rates extracted from one response line, as
// fractions in [0,1].
type Rates struct {
	Duty  float64 `json:"duty"`
	Tax   float64 `json:"tax"`
	Total float64 `json:"total"`
}

// ExtractRates derives the effective duty and tax rates from one response
// line.
//
// A DUTY_DEMINIMIS_APPLIED summary entry with value "true" waives duty
// entirely, overriding any RATE entry. Otherwise the duty rate is the RATE
// entry's value, defaulting to zero when absent. The tax rate is the maximum
// rate across TAX cost lines (a response may list one tax line per
// jurisdiction; the effective rate is the highest, not the sum).
func ExtractRates(line *ResponseLine) (Rates, error) {
	if line == nil {
		return Rates{}, fmt.Errorf("response line cannot be nil")
	}

	dutyRate := 0.0
	if !deminimisApplied(line.CalculationSummary.DutyCalculationSummary) {
		for _, entry := range line.CalculationSummary.DutyCalculationSummary {
			if entry.Name != summaryRate {
				continue
			}
			parsed, err := strconv.ParseFloat(entry.Value, 64)
			if err != nil {
				return Rates{}, fmt.Errorf("malformed RATE value %q: %w", entry.Value, err)
			}
			dutyRate = parsed
			break
		}
	}

	taxRate := 0.0
	for _, costLine := range line.CostLines {
		if costLine.Type == costLineTypeTax && costLine.Rate > taxRate {
			taxRate = costLine.Rate
		}
	}

	return Rates{
		Duty:  dutyRate,
		Tax:   taxRate,
		Total: dutyRate + taxRate,
	}, nil
}

func deminimisApplied(summary []SummaryEntry) bool {
	for _, entry := range summary {
		if entry.Name == summaryDutyDeminimisApplied {
			return entry.Value == "true"
		}
	}
	return false
}

// FormatPercent renders a rate fraction as a percentage string with two
// decimal places, e.g. 0.125 -> "12.50%".
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}
