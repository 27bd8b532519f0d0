package valuation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opentariff/landedcost/internal/config"
)

func clientFor(serverURL string) *Client {
	return NewClient(&config.ValuationConfig{
		BaseURL:        serverURL,
		Username:       "svc-user",
		Password:       "svc-pass",
		CompanyID:      7654321,
		SellerCode:     "SC8104341",
		TimeoutSeconds: 5,
	})
}

func TestClient_GetQuote(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody Request

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"globalCompliance": [{
				"quote": {
					"lines": [{
						"lineNumber": 1,
						"calculationSummary": {"dutyCalculationSummary": [{"name": "RATE", "value": "0.04"}]},
						"costLines": [{"type": "TAX", "rate": 0.06}]
					}]
				}
			}]
		}`))
	}))
	defer server.Close()

	client := clientFor(server.URL)
	req := &Request{ID: "calculate", CompanyID: 7654321}

	resp, raw, err := client.GetQuote(context.Background(), req)
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}

	if gotPath != "/api/v2/companies/7654321/globalcompliance" {
		t.Errorf("unexpected path: %s", gotPath)
	}

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("svc-user:svc-pass"))
	if gotAuth != wantAuth {
		t.Errorf("unexpected authorization header: %s", gotAuth)
	}

	if gotBody.ID != "calculate" {
		t.Errorf("request body not forwarded, got id %q", gotBody.ID)
	}

	lines := resp.FirstQuoteLines()
	if len(lines) != 1 || lines[0].LineNumber != 1 {
		t.Fatalf("unexpected response lines: %+v", lines)
	}
	if len(raw) == 0 {
		t.Error("expected raw body to be returned")
	}
}

func TestClient_GetQuote_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := clientFor(server.URL)
	_, _, err := client.GetQuote(context.Background(), &Request{ID: "calculate"})
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestClient_GetQuote_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // shut down before the call

	client := clientFor(server.URL)
	_, _, err := client.GetQuote(context.Background(), &Request{ID: "calculate"})
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestClient_GetQuote_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := clientFor(server.URL)
	_, _, err := client.GetQuote(context.Background(), &Request{ID: "calculate"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestClient_GetQuote_MissingComplianceBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"globalCompliance": []}`))
	}))
	defer server.Close()

	client := clientFor(server.URL)
	_, _, err := client.GetQuote(context.Background(), &Request{ID: "calculate"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}
