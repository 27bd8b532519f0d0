package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/opentariff/landedcost/internal/catalogue"
	"github.com/opentariff/landedcost/internal/quote/model"
	"github.com/opentariff/landedcost/internal/valuation"
)

// Calculate runs the batch rate pipeline: one multi-line request covering all
// products at a single declared value, submitted once, with rates extracted
// per line.
//
// The declared total is apportioned evenly per unit across the combined
// quantity of all products, so every line carries the same per-unit price.
// Response lines are correlated by their echoed line number, never by
// position.
func (s *QuoteService) Calculate(ctx context.Context, req *model.QuoteRequestDTO, lookup *catalogue.Lookup) ([]model.RateResult, json.RawMessage, error) {
	if len(req.Products) == 0 {
		return nil, nil, fmt.Errorf("no products to calculate")
	}

	totalQuantity := 0
	for i := range req.Products {
		totalQuantity += req.Products[i].EffectiveQuantity()
	}
	unitValue := declaredValue(req.ClearanceType) / float64(totalQuantity)

	lines := make([]valuation.Line, 0, len(req.Products))
	resolutions := make([]model.Resolution, 0, len(req.Products))
	for idx := range req.Products {
		p := &req.Products[idx]
		res := resolveClassification(p, lookup, fallbackHSCodeCalculate)
		resolutions = append(resolutions, res)
		lines = append(lines, buildLine(p, res, unitValue, idx+1, fmt.Sprintf("%d", idx+1), p.COO, lineOptions{cooOnLineParameters: true}))
	}

	quoteReq := newRequest(s.valCfg, "calculate", req.ExportCountry, req.ImportCountry, lines)

	response, raw, err := s.client.GetQuote(ctx, quoteReq)
	if err != nil {
		return nil, raw, fmt.Errorf("calculate quote failed: %w", err)
	}

	byLineNumber := make(map[int]*valuation.ResponseLine)
	responseLines := response.FirstQuoteLines()
	for i := range responseLines {
		byLineNumber[responseLines[i].LineNumber] = &responseLines[i]
	}

	results := make([]model.RateResult, 0, len(req.Products))
	for idx := range req.Products {
		line, ok := byLineNumber[idx+1]
		if !ok {
			return nil, raw, fmt.Errorf("%w: no response line numbered %d", valuation.ErrMalformedResponse, idx+1)
		}

		rates, err := valuation.ExtractRates(line)
		if err != nil {
			return nil, raw, fmt.Errorf("line %d: %w", idx+1, err)
		}

		results = append(results, model.RateResult{
			Product:      req.Products[idx],
			DutyRate:     valuation.FormatPercent(rates.Duty),
			TaxRate:      valuation.FormatPercent(rates.Tax),
			TotalRate:    valuation.FormatPercent(rates.Total),
			Resolution:   resolutions[idx],
			Restrictions: []string{},
		})
	}

	slog.InfoContext(ctx, "calculate pipeline completed",
		"products", len(req.Products),
		"total_quantity", totalQuantity,
		"clearance_type", req.ClearanceType,
	)

	return results, raw, nil
}
