package importer

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/matcha/pkg/events"
	"github.com/Ramsey-B/matcha/pkg/matching"
	"github.com/Ramsey-B/matcha/pkg/models"
	"github.com/Ramsey-B/matcha/pkg/places"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type stubSearcher struct {
	mu      sync.Mutex
	results map[string][]places.Place // keyed by query
	fail    map[string]error
	queries []string
}

func (s *stubSearcher) TextSearch(_ context.Context, query string, _ *places.Bias, _ int) ([]places.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	if err := s.fail[query]; err != nil {
		return nil, err
	}
	return s.results[query], nil
}

func (s *stubSearcher) NearbySearch(context.Context, float64, float64, float64, int) ([]places.Place, error) {
	return nil, nil
}

type fakeBrandStore struct {
	mu     sync.Mutex
	brands map[string]*models.Brand // keyed by name
}

func newFakeBrandStore(brands ...models.Brand) *fakeBrandStore {
	s := &fakeBrandStore{brands: map[string]*models.Brand{}}
	for i := range brands {
		b := brands[i]
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		s.brands[b.Name] = &b
	}
	return s
}

func (s *fakeBrandStore) GetByID(_ context.Context, id string) (*models.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.brands {
		if b.ID == id {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeBrandStore) GetByName(_ context.Context, name string) (*models.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.brands[name]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (s *fakeBrandStore) Create(_ context.Context, req models.CreateBrandRequest) (*models.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &models.Brand{
		ID:            uuid.NewString(),
		Name:          req.Name,
		NameZH:        req.NameZH,
		Description:   req.Description,
		OriginCountry: req.OriginCountry,
	}
	s.brands[b.Name] = b
	return b, nil
}

func (s *fakeBrandStore) ListAll(context.Context) ([]models.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []models.Brand
	for _, b := range s.brands {
		all = append(all, *b)
	}
	return all, nil
}

type fakeShopStore struct {
	mu       sync.Mutex
	shops    []models.Shop
	failNext error
}

func (s *fakeShopStore) Create(_ context.Context, record models.Shop) (*models.Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return nil, err
	}
	record.ID = uuid.NewString()
	s.shops = append(s.shops, record)
	return &record, nil
}

func (s *fakeShopStore) ListPlaceIDs(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, shop := range s.shops {
		if shop.GooglePlaceID != nil {
			ids = append(ids, *shop.GooglePlaceID)
		}
	}
	return ids, nil
}

func (s *fakeShopStore) ListLinked(context.Context) ([]models.Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var linked []models.Shop
	for _, shop := range s.shops {
		if shop.BrandID != nil {
			linked = append(linked, shop)
		}
	}
	return linked, nil
}

func (s *fakeShopStore) ClearBrandLink(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shops {
		if s.shops[i].ID == id {
			s.shops[i].BrandID = nil
			s.shops[i].MatchConfidence = nil
			return nil
		}
	}
	return fmt.Errorf("shop not found: %s", id)
}

func newTestPipeline(searcher places.Searcher, brands *fakeBrandStore, shops *fakeShopStore, cfg Config) *Pipeline {
	logger := testLogger()
	cfg.PointDelay = 0
	matcher := matching.NewMatcher(matching.DefaultAliasRegistry(), matching.Config{})
	return NewPipeline(searcher, brands, shops, matcher, events.NewEmitter(nil, logger), logger, cfg)
}

func place(id, name string) places.Place {
	return places.Place{
		ID:        id,
		Name:      name,
		Address:   "No. 1, Section 1",
		Latitude:  25.03,
		Longitude: 121.56,
	}
}

func TestPipeline_RunTargeted(t *testing.T) {
	grid := []GridPoint{{Name: "Taipei City", Latitude: 25.0330, Longitude: 121.5654}}
	seeds := []BrandSeed{{Name: "Gong Cha", NameZH: "貢茶", OriginCountry: "TW"}}

	t.Run("persists confident matches and skips the rest", func(t *testing.T) {
		searcher := &stubSearcher{results: map[string][]places.Place{
			"Gong Cha bubble tea": {
				place("p1", "Gong Cha Taipei Main"),
				place("p2", "Random Noodle House"),
				place("", "No Place ID"),
			},
		}}
		shops := &fakeShopStore{}
		pipeline := newTestPipeline(searcher, newFakeBrandStore(), shops, Config{})

		counts, err := pipeline.RunTargeted(context.Background(), seeds, grid)
		require.NoError(t, err)

		assert.Equal(t, 1, counts.Created)
		assert.Equal(t, 1, counts.LowConfidence)
		assert.Equal(t, 0, counts.Duplicates)

		require.Len(t, shops.shops, 1)
		created := shops.shops[0]
		assert.Equal(t, "Gong Cha Taipei Main", created.Name)
		require.NotNil(t, created.GooglePlaceID)
		assert.Equal(t, "p1", *created.GooglePlaceID)
		require.NotNil(t, created.BrandID)
		require.NotNil(t, created.MatchConfidence)
		assert.Equal(t, 1.0, *created.MatchConfidence)
		assert.Equal(t, "TW", created.Country)
		require.NotNil(t, created.City)
		assert.Equal(t, "Taipei", *created.City)
	})

	t.Run("already-persisted place IDs count as duplicates", func(t *testing.T) {
		searcher := &stubSearcher{results: map[string][]places.Place{
			"Gong Cha bubble tea": {place("p1", "Gong Cha Taipei Main")},
		}}
		shops := &fakeShopStore{}
		pipeline := newTestPipeline(searcher, newFakeBrandStore(), shops, Config{})

		counts, err := pipeline.RunTargeted(context.Background(), seeds, grid)
		require.NoError(t, err)
		assert.Equal(t, 1, counts.Created)

		counts, err = pipeline.RunTargeted(context.Background(), seeds, grid)
		require.NoError(t, err)
		assert.Equal(t, 0, counts.Created)
		assert.Equal(t, 1, counts.Duplicates)
		assert.Len(t, shops.shops, 1)
	})

	t.Run("low-confidence skip leaves the place for a later brand", func(t *testing.T) {
		searcher := &stubSearcher{results: map[string][]places.Place{
			"Gong Cha bubble tea":    {place("p9", "Tiger Sugar Xinyi")},
			"Tiger Sugar bubble tea": {place("p9", "Tiger Sugar Xinyi")},
		}}
		shops := &fakeShopStore{}
		pipeline := newTestPipeline(searcher, newFakeBrandStore(), shops, Config{})

		twoSeeds := []BrandSeed{
			{Name: "Gong Cha", NameZH: "貢茶", OriginCountry: "TW"},
			{Name: "Tiger Sugar", OriginCountry: "TW"},
		}
		counts, err := pipeline.RunTargeted(context.Background(), twoSeeds, grid)
		require.NoError(t, err)

		assert.Equal(t, 1, counts.Created)
		assert.Equal(t, 1, counts.LowConfidence)
		require.Len(t, shops.shops, 1)
		assert.Equal(t, "Tiger Sugar Xinyi", shops.shops[0].Name)
	})

	t.Run("persist failure releases the claim", func(t *testing.T) {
		searcher := &stubSearcher{results: map[string][]places.Place{
			"Gong Cha bubble tea": {place("p1", "Gong Cha Taipei Main")},
		}}
		shops := &fakeShopStore{failNext: fmt.Errorf("connection reset")}
		pipeline := newTestPipeline(searcher, newFakeBrandStore(), shops, Config{})

		_, err := pipeline.RunTargeted(context.Background(), seeds, grid)
		require.Error(t, err)
		assert.Empty(t, shops.shops)

		// The claim was rolled back, so a retry succeeds.
		counts, err := pipeline.RunTargeted(context.Background(), seeds, grid)
		require.NoError(t, err)
		assert.Equal(t, 1, counts.Created)
		assert.Len(t, shops.shops, 1)
	})

	t.Run("dry run persists nothing", func(t *testing.T) {
		searcher := &stubSearcher{results: map[string][]places.Place{
			"Gong Cha bubble tea": {place("p1", "Gong Cha Taipei Main"), place("p2", "Gong Cha Daan")},
		}}
		brands := newFakeBrandStore()
		shops := &fakeShopStore{}
		pipeline := newTestPipeline(searcher, brands, shops, Config{DryRun: true})

		counts, err := pipeline.RunTargeted(context.Background(), seeds, grid)
		require.NoError(t, err)

		assert.Equal(t, 2, counts.Created)
		assert.Empty(t, shops.shops)
		assert.Empty(t, brands.brands)
	})

	t.Run("search failure is counted, not fatal", func(t *testing.T) {
		searcher := &stubSearcher{fail: map[string]error{"Gong Cha bubble tea": fmt.Errorf("quota exceeded")}}
		shops := &fakeShopStore{}
		pipeline := newTestPipeline(searcher, newFakeBrandStore(), shops, Config{})

		counts, err := pipeline.RunTargeted(context.Background(), seeds, grid)
		require.NoError(t, err)
		assert.Equal(t, 1, counts.SearchErrors)
		assert.Equal(t, 0, counts.Created)
	})

	t.Run("creates missing brands once", func(t *testing.T) {
		searcher := &stubSearcher{results: map[string][]places.Place{}}
		brands := newFakeBrandStore()
		pipeline := newTestPipeline(searcher, brands, &fakeShopStore{}, Config{})

		_, err := pipeline.RunTargeted(context.Background(), seeds, grid)
		require.NoError(t, err)
		require.Len(t, brands.brands, 1)
		created := brands.brands["Gong Cha"]
		require.NotNil(t, created.NameZH)
		assert.Equal(t, "貢茶", *created.NameZH)
	})
}

func TestPipeline_RunDiscovery(t *testing.T) {
	grid := []GridPoint{{Name: "Taipei City", Latitude: 25.0330, Longitude: 121.5654}}

	t.Run("links confident results and keeps the rest unverified", func(t *testing.T) {
		searcher := &stubSearcher{results: map[string][]places.Place{
			"bubble tea": {
				place("p1", "Tiger Sugar Xinyi"),
				place("p2", "Totally Unrelated Bakery"),
			},
		}}
		tiger := models.Brand{ID: "brand-tiger", Name: "Tiger Sugar"}
		shops := &fakeShopStore{}
		pipeline := newTestPipeline(searcher, newFakeBrandStore(tiger), shops, Config{})

		counts, err := pipeline.RunDiscovery(context.Background(), grid, "")
		require.NoError(t, err)

		assert.Equal(t, 2, counts.Created)
		assert.Equal(t, 1, counts.LowConfidence)
		require.Len(t, shops.shops, 2)

		byName := map[string]models.Shop{}
		for _, s := range shops.shops {
			byName[s.Name] = s
		}
		linked := byName["Tiger Sugar Xinyi"]
		require.NotNil(t, linked.BrandID)
		assert.Equal(t, "brand-tiger", *linked.BrandID)
		assert.Equal(t, models.ShopStatusActive, linked.Status)

		unlinked := byName["Totally Unrelated Bakery"]
		assert.Nil(t, unlinked.BrandID)
		assert.Nil(t, unlinked.MatchConfidence)
		assert.Equal(t, models.ShopStatusUnverified, unlinked.Status)
	})

	t.Run("defaults the query", func(t *testing.T) {
		searcher := &stubSearcher{}
		pipeline := newTestPipeline(searcher, newFakeBrandStore(), &fakeShopStore{}, Config{})

		_, err := pipeline.RunDiscovery(context.Background(), grid, "")
		require.NoError(t, err)
		require.Len(t, searcher.queries, 1)
		assert.Equal(t, "bubble tea", searcher.queries[0])
	})
}

func TestPipeline_Relink(t *testing.T) {
	newLinkedShop := func(id, name, brandID string) models.Shop {
		confidence := 0.95
		placeID := "place-" + id
		return models.Shop{
			ID:              id,
			GooglePlaceID:   &placeID,
			BrandID:         &brandID,
			Name:            name,
			Address:         "somewhere",
			Country:         "TW",
			Status:          models.ShopStatusActive,
			MatchConfidence: &confidence,
		}
	}

	t.Run("clears links that no longer score", func(t *testing.T) {
		gongCha := models.Brand{ID: "brand-gc", Name: "Gong Cha"}
		brands := newFakeBrandStore(gongCha)
		shops := &fakeShopStore{shops: []models.Shop{
			newLinkedShop("s1", "Gong Cha Taipei Main", "brand-gc"),
			newLinkedShop("s2", "Happy Lemon Stand", "brand-gc"),
		}}
		pipeline := newTestPipeline(&stubSearcher{}, brands, shops, Config{})

		report, err := pipeline.Relink(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, report.Checked)
		assert.Equal(t, 1, report.Cleared)
		require.Len(t, report.Findings, 1)
		assert.Equal(t, "s2", report.Findings[0].ShopID)
		assert.Equal(t, "Gong Cha", report.Findings[0].BrandName)
		assert.Less(t, report.Findings[0].Confidence, 0.9)

		linked, err := shops.ListLinked(context.Background())
		require.NoError(t, err)
		require.Len(t, linked, 1)
		assert.Equal(t, "s1", linked[0].ID)
	})

	t.Run("dry run reports without clearing", func(t *testing.T) {
		gongCha := models.Brand{ID: "brand-gc", Name: "Gong Cha"}
		brands := newFakeBrandStore(gongCha)
		shops := &fakeShopStore{shops: []models.Shop{
			newLinkedShop("s2", "Happy Lemon Stand", "brand-gc"),
		}}
		pipeline := newTestPipeline(&stubSearcher{}, brands, shops, Config{DryRun: true})

		report, err := pipeline.Relink(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 0, report.Cleared)
		require.Len(t, report.Findings, 1)

		linked, err := shops.ListLinked(context.Background())
		require.NoError(t, err)
		assert.Len(t, linked, 1)
	})
}
