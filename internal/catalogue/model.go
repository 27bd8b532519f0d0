package catalogue

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel defines the common persisted fields shared by catalogue records.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;column:id;not null;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"type:timestamptz;column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamptz;column:updated_at;not null" json:"updatedAt"`
}

// BeforeCreate is a GORM hook that is triggered before a new record is created.
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID, err = uuid.NewRandom()
	}
	return err
}

// Entry is one row of the product reference catalogue. Products are matched
// against it by commodity description; the HS code and category act as
// defaults when the product record carries neither.
type Entry struct {
	BaseModel
	Description string `gorm:"type:text;column:description;not null;unique" json:"description"` // Commodity description, the lookup key
	HSCode      string `gorm:"type:varchar(50);column:hs_code;not null" json:"hsCode"`          // Default HS classification
	Category    string `gorm:"type:text;column:category" json:"category"`                       // Default item category
}

func (e *Entry) TableName() string {
	return "catalogue_entries"
}

// EntryFilter will be used when querying as batch
type EntryFilter struct {
	DescriptionStartsWith *string `json:"descriptionStartsWith,omitempty"`
	Offset                *int    `json:"offset,omitempty"`
	Limit                 *int    `json:"limit,omitempty"`
}

// EntryListResult represents the result of querying catalogue entries with pagination
type EntryListResult struct {
	TotalCount int64   `json:"totalCount"`
	Entries    []Entry `json:"entries"`
	Offset     int     `json:"offset"`
	Limit      int     `json:"limit"`
}
