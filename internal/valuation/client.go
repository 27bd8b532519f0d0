package valuation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/opentariff/landedcost/internal/config"
)

// ErrServiceUnavailable is returned when the valuation service cannot be
// reached or answers outside the 2xx range. Callers use it to distinguish an
// unavailable service from a genuine zero rate.
var ErrServiceUnavailable = errors.New("valuation service unavailable")

// ErrMalformedResponse is returned when the service answers with a body that
// does not match the expected contract.
var ErrMalformedResponse = errors.New("malformed valuation response")

// Client performs synchronous quote calls against the global-trade-compliance
// service. Authentication is HTTP Basic with the configured service account;
// the account and company ID are deployment configuration, injected once at
// construction. There is no retry.
type Client struct {
	cfg        *config.ValuationConfig
	httpClient *http.Client
}

func NewClient(cfg *config.ValuationConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// endpoint returns the company-scoped quoting URL.
func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/api/v2/companies/%d/globalcompliance", c.cfg.BaseURL, c.cfg.CompanyID)
}

// GetQuote submits one quote request and returns the decoded response along
// with the raw body for diagnostics.
func (c *Client) GetQuote(ctx context.Context, quoteReq *Request) (*Response, json.RawMessage, error) {
	payload, err := json.Marshal(quoteReq)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal quote request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewBuffer(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read body: %v", ErrServiceUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.WarnContext(ctx, "valuation service returned non-success status",
			"status", resp.StatusCode,
			"request_id", quoteReq.ID,
		)
		return nil, body, fmt.Errorf("%w: status code %d", ErrServiceUnavailable, resp.StatusCode)
	}

	var decoded Response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, body, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(decoded.GlobalCompliance) == 0 {
		return nil, body, fmt.Errorf("%w: missing globalCompliance block", ErrMalformedResponse)
	}

	return &decoded, body, nil
}
