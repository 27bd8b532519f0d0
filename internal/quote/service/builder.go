package service

import (
	"math"
	"strconv"

	"github.com/opentariff/landedcost/internal/catalogue"
	"github.com/opentariff/landedcost/internal/config"
	"github.com/opentariff/landedcost/internal/quote/model"
	"github.com/opentariff/landedcost/internal/valuation"
)

const (
	// ClearanceTypeType86 selects the de-minimis entry channel; every other
	// clearance type label falls into the standard branch.
	ClearanceTypeType86 = "Type 86"

	declaredValueType86   = 799.0
	declaredValueStandard = 801.0
)

// The calculate pipeline submits an 8-digit HS fallback, the optimizer a
// 6-digit one; the widths are part of the submitted classification.
const (
	fallbackHSCodeCalculate = "00000000"
	fallbackHSCodeOptimize  = "000000"
	fallbackCategory        = "General"
)

const (
	currencyUSD = "USD"

	// All HS classifications are reported under a single fixed jurisdiction.
	reportingJurisdiction = "DE"

	// The destination region is fixed by the service contract.
	destinationRegion = "MA"

	requestType    = "QUOTE_MAXIMUM"
	requestProgram = "Regular"
)

// storeMerchandiseTypes is a fixed processing flag of the request contract.
var storeMerchandiseTypes = []string{"Toys"}

// fixedLineParameters are the packaging and per-line cost constants attached
// to every shipment line, identical across all calls.
var fixedLineParameters = []valuation.Parameter{
	{Name: "length", Value: "10", Unit: "in"},
	{Name: "width", Value: "6", Unit: "in"},
	{Name: "height", Value: "4", Unit: "in"},
	{Name: "weight", Value: "1.11", Unit: "lb"},
	{Name: "SHIPPING", Value: 8.88, Unit: "USD"},
	{Name: "HANDLING", Value: 3.33, Unit: "USD"},
	{Name: "INSURANCE", Value: 2.22, Unit: "USD"},
}

// destinationParameters are the fixed destination-level cost parameters.
var destinationParameters = []valuation.Parameter{
	{Name: "SPECIAL_CALC2", Value: "DUTY_ONLY", Unit: ""},
	{Name: "SHIPPING", Value: "3", Unit: "USD"},
	{Name: "HANDLING", Value: "5", Unit: "USD"},
	{Name: "INSURANCE", Value: "3", Unit: "USD"},
}

// declaredValue returns the total declared value for a clearance type. The
// thresholds are fixed regulatory constants, not user configuration.
func declaredValue(clearanceType string) float64 {
	if clearanceType == ClearanceTypeType86 {
		return declaredValueType86
	}
	return declaredValueStandard
}

// priceString renders a per-unit value rounded to two decimals, without
// trailing zeros, as the service expects.
func priceString(value float64) string {
	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// resolveClassification resolves the HS code and category for a product:
// explicit override first, then the catalogue entry for its description, then
// the literal fallback. The provenance of each value is recorded.
func resolveClassification(p *model.Product, lookup *catalogue.Lookup, hsFallback string) model.Resolution {
	res := model.Resolution{
		HSCode:         hsFallback,
		HSCodeSource:   model.ResolvedViaDefault,
		Category:       fallbackCategory,
		CategorySource: model.ResolvedViaDefault,
	}

	defaults, found := lookup.Defaults(p.Description)

	if p.HSCode != "" {
		res.HSCode = p.HSCode
		res.HSCodeSource = model.ResolvedViaOverride
	} else if found && defaults.HSCode != "" {
		res.HSCode = defaults.HSCode
		res.HSCodeSource = model.ResolvedViaCatalogue
	}

	if p.Category != "" {
		res.Category = p.Category
		res.CategorySource = model.ResolvedViaOverride
	} else if found && defaults.Category != "" {
		res.Category = defaults.Category
		res.CategorySource = model.ResolvedViaCatalogue
	}

	return res
}

// lineOptions controls the per-pipeline quirks of line construction.
type lineOptions struct {
	// cooOnLineParameters controls whether a specified COO is also appended
	// to the line-level parameter set. The calculate pipeline appends it to
	// both sets, the optimizer only to the item-level set.
	cooOnLineParameters bool
}

// buildLine produces one shipment line for a product at the given per-unit
// value. A country of origin is appended only when specified; it is never
// sent as an empty value.
func buildLine(p *model.Product, res model.Resolution, unitValue float64, lineNumber int, itemCode string, coo string, opts lineOptions) valuation.Line {
	price := valuation.Parameter{Name: "price", Value: priceString(unitValue), Unit: currencyUSD}

	itemParams := []valuation.Parameter{price}
	lineParams := make([]valuation.Parameter, 0, len(fixedLineParameters)+2)
	lineParams = append(lineParams, price)
	lineParams = append(lineParams, fixedLineParameters...)

	if coo != "" {
		cooParam := valuation.Parameter{Name: "coo", Value: coo, Unit: ""}
		itemParams = append(itemParams, cooParam)
		if opts.cooOnLineParameters {
			lineParams = append(lineParams, cooParam)
		}
	}

	return valuation.Line{
		LineNumber:                  lineNumber,
		Quantity:                    p.EffectiveQuantity(),
		PreferenceProgramApplicable: p.PreferenceProgramApplicable,
		Item: valuation.Item{
			ItemCode:    itemCode,
			Description: p.Description,
			ItemGroup:   res.Category,
			Classifications: []valuation.Classification{
				{Country: reportingJurisdiction, HSCode: res.HSCode},
			},
			ClassificationParameters: itemParams,
			Parameters:               []valuation.Parameter{},
		},
		ClassificationParameters: lineParams,
	}
}

// newRequest assembles a full quote request around the given lines.
func newRequest(cfg *config.ValuationConfig, id, exportCountry, importCountry string, lines []valuation.Line) *valuation.Request {
	return &valuation.Request{
		ID:         id,
		CompanyID:  cfg.CompanyID,
		Currency:   currencyUSD,
		SellerCode: cfg.SellerCode,
		ShipFrom:   valuation.Country{Country: exportCountry},
		Destinations: []valuation.Destination{
			{
				ShipTo:        valuation.ShipTo{Country: importCountry, Region: destinationRegion},
				Parameters:    destinationParameters,
				TaxRegistered: false,
			},
		},
		Lines:                     lines,
		Type:                      requestType,
		StoreMerchandiseTypes:     storeMerchandiseTypes,
		DisableCalculationSummary: false,
		RestrictionsCheck:         true,
		Program:                   requestProgram,
	}
}
