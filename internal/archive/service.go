package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// Record describes one archived diagnostic payload.
type Record struct {
	QuoteID uuid.UUID `json:"quoteId"`
	Key     string    `json:"key"`
	URL     string    `json:"url"`
	Size    int64     `json:"size"`
}

// Service archives raw valuation-service responses so a quote's diagnostics
// outlive the request that produced them.
type Service struct {
	Driver StorageDriver
}

func NewService(driver StorageDriver) *Service {
	return &Service{Driver: driver}
}

// StoreRaw archives one raw response body under the quote ID and returns the
// record describing where it landed.
func (s *Service) StoreRaw(ctx context.Context, quoteID uuid.UUID, body []byte) (*Record, error) {
	key := fmt.Sprintf("%s.json", quoteID)

	if err := s.Driver.Save(ctx, key, bytes.NewReader(body), "application/json"); err != nil {
		return nil, fmt.Errorf("storage driver failed: %w", err)
	}

	url, err := s.Driver.GenerateURL(ctx, key, 0)
	if err != nil {
		if delErr := s.Driver.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to cleanup orphaned diagnostics", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to generate URL: %w", err)
	}

	record := &Record{
		QuoteID: quoteID,
		Key:     key,
		URL:     url,
		Size:    int64(len(body)),
	}

	slog.InfoContext(ctx, "diagnostics archived", "quote_id", quoteID, "key", key, "size", record.Size)
	return record, nil
}

// Fetch retrieves an archived payload by quote ID.
func (s *Service) Fetch(ctx context.Context, quoteID uuid.UUID) (io.ReadCloser, string, error) {
	return s.Driver.Get(ctx, fmt.Sprintf("%s.json", quoteID))
}
