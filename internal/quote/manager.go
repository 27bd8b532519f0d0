package quote

import (
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/opentariff/landedcost/internal/archive"
	"github.com/opentariff/landedcost/internal/catalogue"
	"github.com/opentariff/landedcost/internal/config"
	"github.com/opentariff/landedcost/internal/quote/router"
	"github.com/opentariff/landedcost/internal/quote/service"
	"github.com/opentariff/landedcost/internal/valuation"
)

// Manager wires the quoting services and router together.
type Manager struct {
	quoteService     *service.QuoteService
	catalogueService *catalogue.Service
	archiveService   *archive.Service
	quoteRouter      *router.QuoteRouter
}

// NewManager creates the quote manager with its collaborators. The storage
// driver is optional; without it diagnostics are returned inline only.
func NewManager(db *gorm.DB, cfg *config.Config, storage archive.StorageDriver) (*Manager, error) {
	catalogueService, err := catalogue.NewService(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalogue service: %w", err)
	}

	var archiveService *archive.Service
	if storage != nil {
		archiveService = archive.NewService(storage)
	}

	client := valuation.NewClient(&cfg.Valuation)
	quoteService := service.NewQuoteService(client, &cfg.Valuation, &cfg.Optimizer)

	return &Manager{
		quoteService:     quoteService,
		catalogueService: catalogueService,
		archiveService:   archiveService,
		quoteRouter:      router.NewQuoteRouter(quoteService, catalogueService, archiveService),
	}, nil
}

// HandleCreateQuote handles POST /api/quotes
func (m *Manager) HandleCreateQuote(w http.ResponseWriter, r *http.Request) {
	m.quoteRouter.HandleCreateQuote(w, r)
}

// HandleGetRawQuote handles GET /api/quotes/{quoteID}/raw
func (m *Manager) HandleGetRawQuote(w http.ResponseWriter, r *http.Request) {
	m.quoteRouter.HandleGetRawQuote(w, r)
}

// HandleGetCatalogue handles GET /api/catalogue
func (m *Manager) HandleGetCatalogue(w http.ResponseWriter, r *http.Request) {
	m.quoteRouter.HandleGetCatalogue(w, r)
}

// Catalogue exposes the catalogue service for seeding and administration.
func (m *Manager) Catalogue() *catalogue.Service {
	return m.catalogueService
}
