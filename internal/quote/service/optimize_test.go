package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opentariff/landedcost/internal/quote/model"
	"github.com/opentariff/landedcost/internal/valuation"
)

// cooOf pulls the request's COO candidate out of the item parameter set;
// "Not Specified" candidates carry no coo parameter at all.
func cooOf(req *valuation.Request) string {
	for _, p := range req.Lines[0].Item.ClassificationParameters {
		if p.Name == "coo" {
			return p.Value.(string)
		}
	}
	return cooNotSpecified
}

func TestOptimize_PicksLowestTotal(t *testing.T) {
	totals := map[string]float64{
		cooNotSpecified: 0.30,
		"CA":            0.12,
		"MX":            0.12,
		"CN":            0.25,
		"VN":            0.40,
	}

	caller := &fakeQuoteCaller{
		respond: func(req *valuation.Request) (*valuation.Response, json.RawMessage, error) {
			return quoteResponse(rateLine(1, totals[cooOf(req)], 0.0)), json.RawMessage(`{}`), nil
		},
	}
	svc := newTestService(caller, 4)

	req := &model.QuoteRequestDTO{
		Products:      []model.Product{{Description: "wool sweater", Quantity: 2}},
		ExportCountry: "CN",
		ImportCountry: "US",
	}

	results, debug, err := svc.Optimize(context.Background(), req, testLookup())
	assert.NoError(t, err)
	assert.Len(t, results, 1)

	// CA and MX tie at 0.12; CA precedes MX in the candidate list.
	assert.Equal(t, "CA", results[0].COO)
	assert.Equal(t, "12.00%", results[0].DutyRate)
	assert.Equal(t, "12.00%", results[0].TotalRate)
	assert.False(t, results[0].NoResult)
	assert.Len(t, results[0].CooComparisons, 5)
	assert.Equal(t, "CA", results[0].CooComparisons[0].COO)
	assert.Equal(t, "MX", results[0].CooComparisons[1].COO)

	assert.Len(t, debug, 1)
	assert.Equal(t, "CA", debug[0].BestCOO)

	// One call per candidate for the single product.
	assert.Len(t, caller.recorded(), 5)
}

func TestOptimize_PerProductDeclaredValue(t *testing.T) {
	caller := &fakeQuoteCaller{
		respond: func(req *valuation.Request) (*valuation.Response, json.RawMessage, error) {
			return quoteResponse(rateLine(1, 0.0, 0.0)), json.RawMessage(`{}`), nil
		},
	}
	svc := newTestService(caller, 2)

	req := &model.QuoteRequestDTO{
		Products:      []model.Product{{Description: "wool sweater", Quantity: 2}},
		ExportCountry: "CN",
		ImportCountry: "US",
	}

	_, _, err := svc.Optimize(context.Background(), req, testLookup())
	assert.NoError(t, err)

	// 801 over this product's own two units, independent of other products.
	for _, sent := range caller.recorded() {
		assert.Equal(t, "400.5", sent.Lines[0].Item.ClassificationParameters[0].Value)
		assert.Equal(t, 1, sent.Lines[0].LineNumber)
	}
}

func TestOptimize_CooNeverOnLineParameters(t *testing.T) {
	caller := &fakeQuoteCaller{
		respond: func(req *valuation.Request) (*valuation.Response, json.RawMessage, error) {
			return quoteResponse(rateLine(1, 0.0, 0.0)), json.RawMessage(`{}`), nil
		},
	}
	svc := newTestService(caller, 2)

	req := &model.QuoteRequestDTO{
		Products:      []model.Product{{Description: "wool sweater"}},
		ExportCountry: "CN",
		ImportCountry: "US",
	}

	_, _, err := svc.Optimize(context.Background(), req, testLookup())
	assert.NoError(t, err)

	for _, sent := range caller.recorded() {
		assert.NotContains(t, paramNames(sent.Lines[0].ClassificationParameters), "coo")
	}
}

func TestOptimize_RequestIDsCarryProductAndCandidate(t *testing.T) {
	caller := &fakeQuoteCaller{
		respond: func(req *valuation.Request) (*valuation.Response, json.RawMessage, error) {
			return quoteResponse(rateLine(1, 0.0, 0.0)), json.RawMessage(`{}`), nil
		},
	}
	svc := newTestService(caller, 1)

	req := &model.QuoteRequestDTO{
		Products: []model.Product{
			{Description: "wool sweater"},
			{Description: "ceramic mug"},
		},
		ExportCountry: "CN",
		ImportCountry: "US",
	}

	_, _, err := svc.Optimize(context.Background(), req, testLookup())
	assert.NoError(t, err)

	seen := make(map[string]bool)
	for _, sent := range caller.recorded() {
		assert.True(t, strings.HasPrefix(sent.ID, "optimize-"))
		seen[sent.ID] = true
	}
	assert.True(t, seen["optimize-0-Not Specified"])
	assert.True(t, seen["optimize-1-CN"])
	assert.Len(t, seen, 10)
}

func TestOptimize_CapsAtThreeProducts(t *testing.T) {
	caller := &fakeQuoteCaller{
		respond: func(req *valuation.Request) (*valuation.Response, json.RawMessage, error) {
			return quoteResponse(rateLine(1, 0.0, 0.0)), json.RawMessage(`{}`), nil
		},
	}
	svc := newTestService(caller, 3)

	products := make([]model.Product, 5)
	for i := range products {
		products[i] = model.Product{Description: fmt.Sprintf("item %d", i)}
	}
	req := &model.QuoteRequestDTO{
		Products:      products,
		ExportCountry: "CN",
		ImportCountry: "US",
	}

	results, _, err := svc.Optimize(context.Background(), req, testLookup())
	assert.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Len(t, caller.recorded(), 3*len(cooCandidates))
}

func TestOptimize_SkipsFailedCandidates(t *testing.T) {
	caller := &fakeQuoteCaller{
		respond: func(req *valuation.Request) (*valuation.Response, json.RawMessage, error) {
			if cooOf(req) == "CN" {
				return nil, nil, valuation.ErrServiceUnavailable
			}
			return quoteResponse(rateLine(1, 0.10, 0.0)), json.RawMessage(`{}`), nil
		},
	}
	svc := newTestService(caller, 2)

	req := &model.QuoteRequestDTO{
		Products:      []model.Product{{Description: "wool sweater"}},
		ExportCountry: "CN",
		ImportCountry: "US",
	}

	results, _, err := svc.Optimize(context.Background(), req, testLookup())
	assert.NoError(t, err)
	assert.False(t, results[0].NoResult)
	assert.Len(t, results[0].CooComparisons, 4)
	assert.Len(t, results[0].SkippedCandidates, 1)
	assert.Equal(t, "CN", results[0].SkippedCandidates[0].COO)
}

func TestOptimize_AllCandidatesFail(t *testing.T) {
	caller := &fakeQuoteCaller{
		respond: func(req *valuation.Request) (*valuation.Response, json.RawMessage, error) {
			return nil, nil, valuation.ErrServiceUnavailable
		},
	}
	svc := newTestService(caller, 2)

	req := &model.QuoteRequestDTO{
		Products:      []model.Product{{Description: "wool sweater"}},
		ExportCountry: "CN",
		ImportCountry: "US",
	}

	results, debug, err := svc.Optimize(context.Background(), req, testLookup())
	assert.NoError(t, err)
	assert.True(t, results[0].NoResult)
	assert.Empty(t, results[0].COO)
	assert.Empty(t, results[0].DutyRate)
	assert.Empty(t, results[0].CooComparisons)
	assert.Len(t, results[0].SkippedCandidates, 5)
	assert.Empty(t, debug[0].BestCOO)
}

func TestOptimize_UsesOptimizeFallbackWidth(t *testing.T) {
	caller := &fakeQuoteCaller{
		respond: func(req *valuation.Request) (*valuation.Response, json.RawMessage, error) {
			return quoteResponse(rateLine(1, 0.0, 0.0)), json.RawMessage(`{}`), nil
		},
	}
	svc := newTestService(caller, 1)

	req := &model.QuoteRequestDTO{
		Products:      []model.Product{{Description: "mystery gadget"}},
		ExportCountry: "CN",
		ImportCountry: "US",
	}

	results, _, err := svc.Optimize(context.Background(), req, testLookup())
	assert.NoError(t, err)
	assert.Equal(t, fallbackHSCodeOptimize, results[0].HSCode)
	for _, sent := range caller.recorded() {
		assert.Equal(t, fallbackHSCodeOptimize, sent.Lines[0].Item.Classifications[0].HSCode)
	}
}
