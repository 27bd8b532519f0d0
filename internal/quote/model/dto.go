package model

import "encoding/json"

// Mode selects which pipeline serves a quote request.
type Mode string

const (
	ModeCalculate Mode = "calculate"
	ModeOptimize  Mode = "optimize"
)

// QuoteRequestDTO is the inbound payload for POST /api/quotes.
type QuoteRequestDTO struct {
	Products      []Product `json:"products"`
	ExportCountry string    `json:"exportCountry"`
	ImportCountry string    `json:"importCountry"`
	ClearanceType string    `json:"clearanceType"`
	Mode          Mode      `json:"mode,omitempty"` // defaults to calculate
}

// CalculateResponseDTO is the outbound payload for calculate mode.
type CalculateResponseDTO struct {
	QuoteID     string          `json:"quoteId"`
	Results     []RateResult    `json:"results"`
	Diagnostics json.RawMessage `json:"diagnostics,omitempty"`
	ArchiveURL  string          `json:"archiveUrl,omitempty"`
}

// OptimizeResponseDTO is the outbound payload for optimize mode.
type OptimizeResponseDTO struct {
	QuoteID     string               `json:"quoteId"`
	Results     []OptimizeResult     `json:"results"`
	Diagnostics []OptimizeDebugEntry `json:"diagnostics,omitempty"`
	ArchiveURL  string               `json:"archiveUrl,omitempty"`
}
