package model

// RateResult is the per-product output of the calculate pipeline. Rate fields
// are percentage strings with two decimal places.
type RateResult struct {
	Product
	DutyRate     string     `json:"duty_rate"`
	TaxRate      string     `json:"tax_rate"`
	TotalRate    string     `json:"total_rate"`
	Resolution   Resolution `json:"resolution"`
	Restrictions []string   `json:"restrictions"`
}

// CooComparison is one ranked candidate of a COO optimization, with rates as
// raw fractions rather than formatted percentages.
type CooComparison struct {
	COO   string  `json:"coo"`
	Duty  float64 `json:"duty"`
	Tax   float64 `json:"tax"`
	Total float64 `json:"total"`
}

// SkippedCandidate records a COO candidate dropped from comparison because
// its valuation call failed.
type SkippedCandidate struct {
	COO    string `json:"coo"`
	Reason string `json:"reason"`
}

// OptimizeResult is the per-product output of the optimize pipeline. When no
// candidate succeeded, NoResult is set and the rate fields are empty.
type OptimizeResult struct {
	Description                 string             `json:"description"`
	HSCode                      string             `json:"hs_code"`
	COO                         string             `json:"coo,omitempty"`
	Quantity                    int                `json:"quantity"`
	Category                    string             `json:"category"`
	PreferenceProgramApplicable bool               `json:"preferenceProgramApplicable"`
	DutyRate                    string             `json:"duty_rate,omitempty"`
	TaxRate                     string             `json:"tax_rate,omitempty"`
	TotalRate                   string             `json:"total_rate,omitempty"`
	NoResult                    bool               `json:"no_result,omitempty"`
	CooComparisons              []CooComparison    `json:"coo_comparisons"`
	SkippedCandidates           []SkippedCandidate `json:"skipped_candidates,omitempty"`
	Resolution                  Resolution         `json:"resolution"`
	Restrictions                []string           `json:"restrictions"`
}

// OptimizeDebugEntry summarizes one product's optimization for diagnostics.
type OptimizeDebugEntry struct {
	Description    string             `json:"description"`
	BestCOO        string             `json:"best_coo,omitempty"`
	CooComparisons []CooComparison    `json:"coo_comparisons"`
	Skipped        []SkippedCandidate `json:"skipped,omitempty"`
}
