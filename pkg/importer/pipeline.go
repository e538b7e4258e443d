// Package importer sweeps Google Places search results into the directory.
// A sweep walks a geographic grid, matches each returned place against a
// brand, and persists only the confident matches. Place IDs already in the
// database or claimed earlier in the run are skipped.
package importer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/matcha/internal/repositories/shop"
	mctx "github.com/Ramsey-B/matcha/pkg/context"
	"github.com/Ramsey-B/matcha/pkg/database"
	"github.com/Ramsey-B/matcha/pkg/dedupe"
	"github.com/Ramsey-B/matcha/pkg/events"
	"github.com/Ramsey-B/matcha/pkg/matching"
	"github.com/Ramsey-B/matcha/pkg/metrics"
	"github.com/Ramsey-B/matcha/pkg/models"
	"github.com/Ramsey-B/matcha/pkg/places"
	"github.com/Ramsey-B/matcha/pkg/tracing"
)

// BrandStore is the brand persistence surface the pipeline needs
type BrandStore interface {
	GetByID(ctx context.Context, id string) (*models.Brand, error)
	GetByName(ctx context.Context, name string) (*models.Brand, error)
	Create(ctx context.Context, req models.CreateBrandRequest) (*models.Brand, error)
	ListAll(ctx context.Context) ([]models.Brand, error)
}

// ShopStore is the shop persistence surface the pipeline needs
type ShopStore interface {
	Create(ctx context.Context, s models.Shop) (*models.Shop, error)
	ListPlaceIDs(ctx context.Context) ([]string, error)
	ListLinked(ctx context.Context) ([]models.Shop, error)
	ClearBrandLink(ctx context.Context, id string) error
}

// Config holds import pipeline configuration
type Config struct {
	// MinConfidence is the floor for persisting a shop-to-brand link
	MinConfidence float64
	// SearchRadiusMeters is the search radius around each grid point
	SearchRadiusMeters float64
	// MaxResultsPerPoint caps results fetched per grid point
	MaxResultsPerPoint int
	// PointDelay is the pause between grid points, to stay under quota
	PointDelay time.Duration
	// Workers is the number of grid points swept concurrently
	Workers int
	// Country is stamped on shops when the brand has no origin country
	Country string
	// DryRun counts decisions without writing anything
	DryRun bool
}

// DefaultConfig returns default pipeline configuration
func DefaultConfig() Config {
	return Config{
		MinConfidence:      0.9,
		SearchRadiusMeters: 25000,
		MaxResultsPerPoint: 60,
		PointDelay:         300 * time.Millisecond,
		Workers:            1,
		Country:            "TW",
	}
}

// Counts summarizes one pipeline run
type Counts struct {
	Created       int `json:"created"`
	Duplicates    int `json:"duplicates"`
	LowConfidence int `json:"low_confidence"`
	SearchErrors  int `json:"search_errors"`
}

type tally struct {
	mu     sync.Mutex
	counts Counts
}

func (t *tally) created() {
	t.mu.Lock()
	t.counts.Created++
	t.mu.Unlock()
	metrics.ImportResultsTotal.WithLabelValues("created").Inc()
}

func (t *tally) duplicate() {
	t.mu.Lock()
	t.counts.Duplicates++
	t.mu.Unlock()
	metrics.ImportResultsTotal.WithLabelValues("duplicate").Inc()
}

func (t *tally) lowConfidence() {
	t.mu.Lock()
	t.counts.LowConfidence++
	t.mu.Unlock()
	metrics.ImportResultsTotal.WithLabelValues("low_confidence").Inc()
}

func (t *tally) searchError() {
	t.mu.Lock()
	t.counts.SearchErrors++
	t.mu.Unlock()
	metrics.ImportResultsTotal.WithLabelValues("search_error").Inc()
}

func (t *tally) snapshot() Counts {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts
}

// Pipeline imports shops from place searches
type Pipeline struct {
	searcher places.Searcher
	brands   BrandStore
	shops    ShopStore
	matcher  *matching.Matcher
	emitter  *events.Emitter
	logger   ectologger.Logger
	config   Config
}

// NewPipeline creates a new import pipeline
func NewPipeline(searcher places.Searcher, brands BrandStore, shops ShopStore, matcher *matching.Matcher, emitter *events.Emitter, logger ectologger.Logger, cfg Config) *Pipeline {
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = DefaultConfig().MinConfidence
	}
	if cfg.SearchRadiusMeters <= 0 {
		cfg.SearchRadiusMeters = DefaultConfig().SearchRadiusMeters
	}
	if cfg.MaxResultsPerPoint < 1 {
		cfg.MaxResultsPerPoint = DefaultConfig().MaxResultsPerPoint
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Pipeline{
		searcher: searcher,
		brands:   brands,
		shops:    shops,
		matcher:  matcher,
		emitter:  emitter,
		logger:   logger,
		config:   cfg,
	}
}

// RunTargeted imports shops for each seed brand by searching for the brand
// name at every grid point. Brands missing from the database are created
// first, except in dry runs where they stay in memory.
func (p *Pipeline) RunTargeted(ctx context.Context, seeds []BrandSeed, grid []GridPoint) (Counts, error) {
	ctx, span := tracing.StartSpan(ctx, "importer.Pipeline.RunTargeted")
	defer span.End()
	ctx = p.newRunContext(ctx)

	guard, err := p.seedGuard(ctx)
	if err != nil {
		return Counts{}, err
	}

	counts := &tally{}
	for _, seed := range seeds {
		brand, err := p.resolveBrand(ctx, seed)
		if err != nil {
			return counts.snapshot(), err
		}

		p.logger.WithContext(ctx).WithFields(map[string]any{
			"brand":       brand.Name,
			"grid_points": len(grid),
		}).Info("Importing brand")

		// Appending the category term keeps results on topic for brand
		// names that are common words.
		query := brand.Name + " bubble tea"

		err = p.sweep(ctx, grid, func(ctx context.Context, point GridPoint) error {
			results, err := p.searcher.TextSearch(ctx, query, &places.Bias{
				Latitude:     point.Latitude,
				Longitude:    point.Longitude,
				RadiusMeters: p.config.SearchRadiusMeters,
			}, p.config.MaxResultsPerPoint)
			if err != nil {
				counts.searchError()
				p.logger.WithContext(ctx).WithError(err).Errorf("search failed at %s", point.Name)
				return nil
			}

			for _, place := range results {
				if err := p.importPlace(ctx, *brand, place, guard, counts); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return counts.snapshot(), err
		}
	}

	return counts.snapshot(), nil
}

// RunDiscovery sweeps the grid with a generic query and links each result to
// the best-matching known brand. Results that match nothing confidently are
// still persisted, unlinked and unverified, so they can be reviewed later.
func (p *Pipeline) RunDiscovery(ctx context.Context, grid []GridPoint, query string) (Counts, error) {
	ctx, span := tracing.StartSpan(ctx, "importer.Pipeline.RunDiscovery")
	defer span.End()
	ctx = p.newRunContext(ctx)

	if query == "" {
		query = "bubble tea"
	}

	candidates, err := p.brands.ListAll(ctx)
	if err != nil {
		return Counts{}, err
	}

	guard, err := p.seedGuard(ctx)
	if err != nil {
		return Counts{}, err
	}

	counts := &tally{}
	err = p.sweep(ctx, grid, func(ctx context.Context, point GridPoint) error {
		results, err := p.searcher.TextSearch(ctx, query, &places.Bias{
			Latitude:     point.Latitude,
			Longitude:    point.Longitude,
			RadiusMeters: p.config.SearchRadiusMeters,
		}, p.config.MaxResultsPerPoint)
		if err != nil {
			counts.searchError()
			p.logger.WithContext(ctx).WithError(err).Errorf("search failed at %s", point.Name)
			return nil
		}

		for _, place := range results {
			if err := p.discoverPlace(ctx, candidates, place, guard, counts); err != nil {
				return err
			}
		}
		return nil
	})

	return counts.snapshot(), err
}

// importPlace decides one targeted search result. Low-confidence results are
// skipped without claiming the place ID, so a later brand can still win it.
func (p *Pipeline) importPlace(ctx context.Context, brand models.Brand, place places.Place, guard *dedupe.Guard, counts *tally) error {
	if place.ID == "" {
		return nil
	}
	if !guard.IsNew(place.ID) {
		counts.duplicate()
		return nil
	}

	confidence := p.matcher.Confidence(place.Name, brand)
	if confidence < p.config.MinConfidence {
		counts.lowConfidence()
		p.logger.WithContext(ctx).WithFields(map[string]any{
			"shop":       place.Name,
			"brand":      brand.Name,
			"confidence": confidence,
		}).Debug("Skipping low-confidence match")
		return nil
	}

	if p.config.DryRun {
		guard.Claim(place.ID)
		counts.created()
		return nil
	}

	if !guard.TryClaim(place.ID) {
		counts.duplicate()
		return nil
	}

	created, err := p.shops.Create(ctx, p.buildShop(brand, place, &confidence))
	if err != nil {
		if errors.Is(err, shop.ErrPlaceIDTaken) {
			// Raced by a concurrent write. The row exists, so keep the claim.
			counts.duplicate()
			return nil
		}
		guard.Release(place.ID)
		return err
	}

	metrics.MatchConfidence.Observe(confidence)
	counts.created()
	_ = p.emitter.EmitShopCreated(ctx, created, "importer")
	return nil
}

// discoverPlace decides one discovery result. Everything new is persisted;
// only the brand link depends on confidence.
func (p *Pipeline) discoverPlace(ctx context.Context, candidates []models.Brand, place places.Place, guard *dedupe.Guard, counts *tally) error {
	if place.ID == "" {
		return nil
	}
	if !guard.IsNew(place.ID) {
		counts.duplicate()
		return nil
	}

	best, confidence := p.matcher.Best(place.Name, candidates)

	if p.config.DryRun {
		guard.Claim(place.ID)
		counts.created()
		if best == nil || confidence < p.config.MinConfidence {
			counts.lowConfidence()
		}
		return nil
	}

	if !guard.TryClaim(place.ID) {
		counts.duplicate()
		return nil
	}

	var record models.Shop
	if best != nil && confidence >= p.config.MinConfidence {
		record = p.buildShop(*best, place, &confidence)
	} else {
		counts.lowConfidence()
		record = p.buildShop(models.Brand{}, place, nil)
		record.Status = models.ShopStatusUnverified
	}

	created, err := p.shops.Create(ctx, record)
	if err != nil {
		if errors.Is(err, shop.ErrPlaceIDTaken) {
			counts.duplicate()
			return nil
		}
		guard.Release(place.ID)
		return err
	}

	if created.BrandID != nil {
		metrics.MatchConfidence.Observe(confidence)
	}
	counts.created()
	_ = p.emitter.EmitShopCreated(ctx, created, "importer")
	return nil
}

func (p *Pipeline) buildShop(brand models.Brand, place places.Place, confidence *float64) models.Shop {
	now := time.Now().UTC()
	country := p.config.Country
	if brand.OriginCountry != nil && *brand.OriginCountry != "" {
		country = *brand.OriginCountry
	}

	record := models.Shop{
		GooglePlaceID:   &place.ID,
		Name:            place.Name,
		Address:         place.Address,
		Country:         country,
		Latitude:        place.Latitude,
		Longitude:       place.Longitude,
		Status:          models.ShopStatusActive,
		MatchConfidence: confidence,
		LastVerifiedAt:  &now,
	}
	if place.GoogleMapsURI != "" {
		record.GoogleMapsURI = &place.GoogleMapsURI
	}
	if place.Raw != nil {
		record.Raw = database.JSONB[map[string]any]{Data: place.Raw}
	}
	if brand.ID != "" {
		record.BrandID = &brand.ID
	}
	if country == "TW" {
		city := TaiwanCity(place.Latitude, place.Longitude)
		record.City = &city
	}
	return record
}

// resolveBrand finds or creates the database row for a seed. Dry runs never
// write, so an unknown seed becomes an in-memory brand with an empty ID.
func (p *Pipeline) resolveBrand(ctx context.Context, seed BrandSeed) (*models.Brand, error) {
	existing, err := p.brands.GetByName(ctx, seed.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if p.config.DryRun {
		return &models.Brand{
			Name:          seed.Name,
			NameZH:        strPtr(seed.NameZH),
			Description:   strPtr(seed.Description),
			OriginCountry: strPtr(seed.OriginCountry),
		}, nil
	}

	created, err := p.brands.Create(ctx, models.CreateBrandRequest{
		Name:          seed.Name,
		NameZH:        strPtr(seed.NameZH),
		Description:   strPtr(seed.Description),
		OriginCountry: strPtr(seed.OriginCountry),
	})
	if err != nil {
		return nil, err
	}
	_ = p.emitter.EmitBrandCreated(ctx, created, "importer")
	return created, nil
}

// newRunContext tags the context with a fresh run id so every log line from
// one sweep can be correlated
func (p *Pipeline) newRunContext(ctx context.Context) context.Context {
	runID := uuid.New().String()
	ctx = mctx.SetImportRunID(ctx, runID)
	p.logger.WithContext(ctx).WithField("run_id", runID).Info("Starting import run")
	return ctx
}

// seedGuard loads every place ID already persisted so reruns skip them
func (p *Pipeline) seedGuard(ctx context.Context) (*dedupe.Guard, error) {
	ids, err := p.shops.ListPlaceIDs(ctx)
	if err != nil {
		return nil, err
	}
	return dedupe.NewGuard(ids), nil
}

// sweep runs handle over every grid point with config.Workers workers,
// pausing PointDelay between points on each worker. The first handler error
// cancels the remaining points.
func (p *Pipeline) sweep(ctx context.Context, grid []GridPoint, handle func(ctx context.Context, point GridPoint) error) error {
	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	points := make(chan GridPoint)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := 0; i < p.config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for point := range points {
				if err := handle(ctx, point); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					cancel()
					return
				}
				if p.config.PointDelay > 0 {
					select {
					case <-ctx.Done():
						return
					case <-time.After(p.config.PointDelay):
					}
				}
			}
		}()
	}

	for _, point := range grid {
		select {
		case points <- point:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(points)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return parent.Err()
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
