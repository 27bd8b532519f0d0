package catalogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/opentariff/landedcost/utils"
)

// Service manages the product reference catalogue stored in the database.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database cannot be nil")
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate catalogue schema: %w", err)
	}
	return &Service{db: db}, nil
}

// LoadLookup reads the entire catalogue into an immutable in-memory lookup.
// It is called once per request cycle; the pipelines only ever read from the
// returned snapshot.
func (s *Service) LoadLookup(ctx context.Context) (*Lookup, error) {
	var entries []Entry
	if err := s.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load catalogue: %w", err)
	}

	lookup := NewLookup(entries)
	slog.DebugContext(ctx, "catalogue lookup loaded", "entries", lookup.Len())
	return lookup, nil
}

// List returns catalogue entries matching the filter, with pagination.
func (s *Service) List(ctx context.Context, filter EntryFilter) (*EntryListResult, error) {
	offset, limit := utils.GetPaginationParams(filter.Offset, filter.Limit)

	query := s.db.WithContext(ctx).Model(&Entry{})
	if filter.DescriptionStartsWith != nil && *filter.DescriptionStartsWith != "" {
		query = query.Where("description LIKE ?", *filter.DescriptionStartsWith+"%")
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count catalogue entries: %w", err)
	}

	var entries []Entry
	if err := query.Order("description ASC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to query catalogue entries: %w", err)
	}

	return &EntryListResult{
		TotalCount: totalCount,
		Entries:    entries,
		Offset:     offset,
		Limit:      limit,
	}, nil
}

// Upsert inserts or replaces one catalogue entry keyed by description.
func (s *Service) Upsert(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}
	if entry.Description == "" {
		return fmt.Errorf("entry description cannot be empty")
	}

	var existing Entry
	err := s.db.WithContext(ctx).Where("description = ?", entry.Description).First(&existing).Error
	switch {
	case err == nil:
		existing.HSCode = entry.HSCode
		existing.Category = entry.Category
		return s.db.WithContext(ctx).Save(&existing).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.db.WithContext(ctx).Create(entry).Error
	default:
		return fmt.Errorf("failed to query catalogue entry: %w", err)
	}
}
