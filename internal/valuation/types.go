package valuation

// Wire types for the global-trade-compliance quoting service. The request and
// response shapes are a fixed external contract; field names below must match
// the service payload exactly.

// Parameter is a named value attached to items, lines or destinations.
// The service accepts both string and numeric values depending on the
// parameter, so Value is left untyped.
type Parameter struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
	Unit  string `json:"unit"`
}

// Classification is an HS classification under one reporting jurisdiction.
type Classification struct {
	Country string `json:"country"`
	HSCode  string `json:"hscode"`
}

// Item describes the product on a shipment line.
type Item struct {
	ItemCode                 string           `json:"itemCode"`
	Description              string           `json:"description"`
	ItemGroup                string           `json:"itemGroup"`
	Classifications          []Classification `json:"classifications"`
	ClassificationParameters []Parameter      `json:"classificationParameters"`
	Parameters               []Parameter      `json:"parameters"`
}

// Line is one shipment line of a quote request.
type Line struct {
	LineNumber                  int         `json:"lineNumber"`
	Quantity                    int         `json:"quantity"`
	PreferenceProgramApplicable bool        `json:"preferenceProgramApplicable"`
	Item                        Item        `json:"item"`
	ClassificationParameters    []Parameter `json:"classificationParameters"`
}

// Country wraps a ship-from country code.
type Country struct {
	Country string `json:"country"`
}

// ShipTo is the import-side destination address.
type ShipTo struct {
	Country string `json:"country"`
	Region  string `json:"region,omitempty"`
}

// Destination carries the ship-to address plus destination-level cost
// parameters.
type Destination struct {
	ShipTo        ShipTo      `json:"shipTo"`
	Parameters    []Parameter `json:"parameters"`
	TaxRegistered bool        `json:"taxRegistered"`
}

// Request is a full quote payload submitted to the service.
type Request struct {
	ID                        string        `json:"id"`
	CompanyID                 int           `json:"companyId"`
	Currency                  string        `json:"currency"`
	SellerCode                string        `json:"sellerCode"`
	ShipFrom                  Country       `json:"shipFrom"`
	Destinations              []Destination `json:"destinations"`
	Lines                     []Line        `json:"lines"`
	Type                      string        `json:"type"`
	StoreMerchandiseTypes     []string      `json:"storeMerchandiseTypes"`
	DisableCalculationSummary bool          `json:"disableCalculationSummary"`
	RestrictionsCheck         bool          `json:"restrictionsCheck"`
	Program                   string        `json:"program"`
}

// SummaryEntry is one name/value pair of a duty calculation summary.
type SummaryEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CalculationSummary groups the duty calculation summary entries of a line.
type CalculationSummary struct {
	DutyCalculationSummary []SummaryEntry `json:"dutyCalculationSummary"`
}

// CostLine is one component of the landed cost (tax, shipping, ...).
type CostLine struct {
	Type string  `json:"type"`
	Rate float64 `json:"rate"`
}

// ResponseLine is the quoted result for one shipment line.
type ResponseLine struct {
	LineNumber         int                `json:"lineNumber"`
	CalculationSummary CalculationSummary `json:"calculationSummary"`
	CostLines          []CostLine         `json:"costLines"`
}

// ResponseQuote holds the per-line quote results.
type ResponseQuote struct {
	Lines []ResponseLine `json:"lines"`
}

// GlobalCompliance is one compliance block of a response.
type GlobalCompliance struct {
	Quote ResponseQuote `json:"quote"`
}

// Response is the decoded service response. The system depends on this exact
// nesting; a structurally different response is treated as malformed.
type Response struct {
	GlobalCompliance []GlobalCompliance `json:"globalCompliance"`
}

// FirstQuoteLines returns the lines of the first compliance block, or nil if
// the response does not carry one.
func (r *Response) FirstQuoteLines() []ResponseLine {
	if r == nil || len(r.GlobalCompliance) == 0 {
		return nil
	}
	return r.GlobalCompliance[0].Quote.Lines
}
