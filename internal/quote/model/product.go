package model

// Product is one input product record. It is immutable: pipelines only read
// it and copy its fields into result records.
type Product struct {
	Description                 string `json:"description"`                       // Commodity description, catalogue lookup key
	HSCode                      string `json:"hs_code,omitempty"`                 // Optional HS classification override
	Category                    string `json:"category,omitempty"`                // Optional category override
	Quantity                    int    `json:"quantity,omitempty"`                // Unit count, defaults to 1
	COO                         string `json:"coo,omitempty"`                     // Optional 2-letter country of origin
	PreferenceProgramApplicable bool   `json:"preferenceProgramApplicable"`       // Trade-preference flag
}

// EffectiveQuantity returns the product quantity, defaulting to one.
func (p *Product) EffectiveQuantity() int {
	if p.Quantity < 1 {
		return 1
	}
	return p.Quantity
}

// ResolutionSource tags where a resolved HS code or category came from, so
// silent fallbacks stay auditable.
type ResolutionSource string

const (
	ResolvedViaOverride  ResolutionSource = "override"
	ResolvedViaCatalogue ResolutionSource = "catalogue"
	ResolvedViaDefault   ResolutionSource = "default"
)

// Resolution records the classification values used for a product along with
// their provenance.
type Resolution struct {
	HSCode         string           `json:"hsCode"`
	HSCodeSource   ResolutionSource `json:"hsCodeSource"`
	Category       string           `json:"category"`
	CategorySource ResolutionSource `json:"categorySource"`
}
