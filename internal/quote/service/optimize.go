package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/opentariff/landedcost/internal/catalogue"
	"github.com/opentariff/landedcost/internal/quote/model"
	"github.com/opentariff/landedcost/internal/valuation"
)

// maxOptimizeProducts caps how many products one optimization run covers;
// products beyond the cap produce no result.
const maxOptimizeProducts = 3

// cooNotSpecified is the baseline candidate: the line is built without any
// country-of-origin parameter.
const cooNotSpecified = "Not Specified"

// cooCandidates is the fixed, ordered candidate set searched per product.
// The order is the deterministic tie-break: among equal totals, the earlier
// candidate wins.
var cooCandidates = []string{cooNotSpecified, "CA", "MX", "CN", "VN"}

// candidateOutcome is the typed result of one product x candidate valuation
// call. Either Rates is valid or Err is set.
type candidateOutcome struct {
	coo   string
	rates valuation.Rates
	err   error
}

// Optimize searches the fixed COO candidate set for each of the first
// maxOptimizeProducts products and selects the candidate minimizing the total
// rate.
//
// Unlike Calculate, the declared value here is per product: each product's
// per-unit value is the clearance threshold divided by its own quantity. The
// independent product x candidate calls are fanned out over a bounded worker
// pool; aggregation preserves candidate-list order so the tie-break stays
// deterministic regardless of completion order. A failed candidate is
// recorded and skipped rather than aborting the product's search; if every
// candidate fails the product gets an explicit no-result outcome.
func (s *QuoteService) Optimize(ctx context.Context, req *model.QuoteRequestDTO, lookup *catalogue.Lookup) ([]model.OptimizeResult, []model.OptimizeDebugEntry, error) {
	if len(req.Products) == 0 {
		return nil, nil, fmt.Errorf("no products to optimize")
	}

	products := req.Products
	if len(products) > maxOptimizeProducts {
		products = products[:maxOptimizeProducts]
	}

	resolutions := make([]model.Resolution, len(products))
	for idx := range products {
		resolutions[idx] = resolveClassification(&products[idx], lookup, fallbackHSCodeOptimize)
	}

	outcomes := s.collectOutcomes(ctx, req, products, resolutions)

	results := make([]model.OptimizeResult, 0, len(products))
	debug := make([]model.OptimizeDebugEntry, 0, len(products))

	for idx := range products {
		p := &products[idx]
		res := resolutions[idx]

		comparisons := make([]model.CooComparison, 0, len(cooCandidates))
		skipped := make([]model.SkippedCandidate, 0)
		for _, outcome := range outcomes[idx] {
			if outcome.err != nil {
				slog.WarnContext(ctx, "COO candidate skipped",
					"description", p.Description,
					"coo", outcome.coo,
					"error", outcome.err,
				)
				skipped = append(skipped, model.SkippedCandidate{COO: outcome.coo, Reason: outcome.err.Error()})
				continue
			}
			comparisons = append(comparisons, model.CooComparison{
				COO:   outcome.coo,
				Duty:  outcome.rates.Duty,
				Tax:   outcome.rates.Tax,
				Total: outcome.rates.Total,
			})
		}

		// Stable sort keeps candidate-list order among equal totals.
		sort.SliceStable(comparisons, func(i, j int) bool {
			return comparisons[i].Total < comparisons[j].Total
		})

		result := model.OptimizeResult{
			Description:                 p.Description,
			HSCode:                      res.HSCode,
			Quantity:                    p.EffectiveQuantity(),
			Category:                    res.Category,
			PreferenceProgramApplicable: p.PreferenceProgramApplicable,
			CooComparisons:              comparisons,
			SkippedCandidates:           skipped,
			Resolution:                  res,
			Restrictions:                []string{},
		}

		entry := model.OptimizeDebugEntry{
			Description:    p.Description,
			CooComparisons: comparisons,
			Skipped:        skipped,
		}

		if len(comparisons) == 0 {
			result.NoResult = true
			slog.WarnContext(ctx, "all COO candidates failed",
				"description", p.Description,
			)
		} else {
			best := comparisons[0]
			result.COO = best.COO
			result.DutyRate = valuation.FormatPercent(best.Duty)
			result.TaxRate = valuation.FormatPercent(best.Tax)
			result.TotalRate = valuation.FormatPercent(best.Total)
			entry.BestCOO = best.COO
		}

		results = append(results, result)
		debug = append(debug, entry)
	}

	return results, debug, nil
}

// collectOutcomes fans the product x candidate valuation calls out over a
// bounded worker pool and returns the outcomes indexed by product and
// candidate position.
func (s *QuoteService) collectOutcomes(ctx context.Context, req *model.QuoteRequestDTO, products []model.Product, resolutions []model.Resolution) [][]candidateOutcome {
	type job struct {
		productIdx   int
		candidateIdx int
	}

	outcomes := make([][]candidateOutcome, len(products))
	for idx := range outcomes {
		outcomes[idx] = make([]candidateOutcome, len(cooCandidates))
	}

	jobs := make(chan job)
	var wg sync.WaitGroup

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				candidate := cooCandidates[j.candidateIdx]
				rates, err := s.quoteCandidate(ctx, req, &products[j.productIdx], resolutions[j.productIdx], j.productIdx, candidate)
				// Each job writes to its own slot; no further synchronization needed.
				outcomes[j.productIdx][j.candidateIdx] = candidateOutcome{
					coo:   candidate,
					rates: rates,
					err:   err,
				}
			}
		}()
	}

	for productIdx := range products {
		for candidateIdx := range cooCandidates {
			jobs <- job{productIdx: productIdx, candidateIdx: candidateIdx}
		}
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

// quoteCandidate submits one single-line request for a product under one COO
// candidate and extracts its rates.
func (s *QuoteService) quoteCandidate(ctx context.Context, req *model.QuoteRequestDTO, p *model.Product, res model.Resolution, productIdx int, candidate string) (valuation.Rates, error) {
	unitValue := declaredValue(req.ClearanceType) / float64(p.EffectiveQuantity())

	coo := candidate
	if candidate == cooNotSpecified {
		coo = ""
	}

	line := buildLine(p, res, unitValue, 1, fmt.Sprintf("%d", productIdx+1), coo, lineOptions{})
	quoteReq := newRequest(s.valCfg, fmt.Sprintf("optimize-%d-%s", productIdx, candidate), req.ExportCountry, req.ImportCountry, []valuation.Line{line})

	response, _, err := s.client.GetQuote(ctx, quoteReq)
	if err != nil {
		return valuation.Rates{}, err
	}

	lines := response.FirstQuoteLines()
	if len(lines) == 0 {
		return valuation.Rates{}, fmt.Errorf("%w: empty quote lines", valuation.ErrMalformedResponse)
	}

	return valuation.ExtractRates(&lines[0])
}
