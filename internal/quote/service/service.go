package service

import (
	"context"
	"encoding/json"

	"github.com/opentariff/landedcost/internal/config"
	"github.com/opentariff/landedcost/internal/valuation"
)

// QuoteCaller is the outbound valuation dependency. *valuation.Client
// satisfies it; tests substitute a fake.
type QuoteCaller interface {
	GetQuote(ctx context.Context, req *valuation.Request) (*valuation.Response, json.RawMessage, error)
}

// QuoteService runs the calculate and optimize pipelines against the
// valuation service. All state is per-invocation; the service itself only
// holds its injected collaborators.
type QuoteService struct {
	client  QuoteCaller
	valCfg  *config.ValuationConfig
	workers int
}

func NewQuoteService(client QuoteCaller, valCfg *config.ValuationConfig, optCfg *config.OptimizerConfig) *QuoteService {
	workers := 1
	if optCfg != nil && optCfg.Workers > 0 {
		workers = optCfg.Workers
	}
	return &QuoteService{
		client:  client,
		valCfg:  valCfg,
		workers: workers,
	}
}
