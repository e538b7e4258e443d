package shop

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/matcha/pkg/database"
	"github.com/Ramsey-B/matcha/pkg/models"
	"github.com/Ramsey-B/matcha/pkg/tracing"
	"github.com/google/uuid"
)

// ErrPlaceIDTaken is returned when a create collides with the partial unique
// index on google_place_id
var ErrPlaceIDTaken = fmt.Errorf("google place id already exists")

// ShopRepository defines the interface for shop operations
type ShopRepository interface {
	Create(ctx context.Context, shop models.Shop) (*models.Shop, error)
	GetByID(ctx context.Context, id string) (*models.Shop, error)
	GetByPlaceID(ctx context.Context, placeID string) (*models.Shop, error)
	List(ctx context.Context, filter models.ShopFilter, page, pageSize int) ([]models.Shop, int, error)
	Search(ctx context.Context, q string, limit int) ([]models.Shop, error)
	Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]models.Shop, error)
	ListPlaceIDs(ctx context.Context) ([]string, error)
	ListLinked(ctx context.Context) ([]models.Shop, error)
	ClearBrandLink(ctx context.Context, id string) error
}

// Repository implements ShopRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new shop repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

const tableName = "shops"

var columns = []string{
	"id", "google_place_id", "brand_id", "name", "address", "city", "country",
	"latitude", "longitude", "rating", "phone", "website", "photo_url",
	"google_maps_uri", "status", "match_confidence", "last_verified_at",
	"raw", "created_at", "updated_at",
}

// Create persists a new shop inside a transaction. ID and timestamps are
// assigned here; callers fill everything else. A google_place_id collision
// comes back as ErrPlaceIDTaken so import races are loud, not silent.
func (r *Repository) Create(ctx context.Context, shop models.Shop) (*models.Shop, error) {
	ctx, span := tracing.StartSpan(ctx, "ShopRepository.Create")
	defer span.End()

	now := time.Now().UTC()
	shop.ID = uuid.New().String()
	shop.CreatedAt = now
	shop.UpdatedAt = now
	if shop.Status == "" {
		shop.Status = models.ShopStatusActive
	}
	if shop.Raw.Data == nil {
		shop.Raw.Data = map[string]any{}
	}

	sb := database.NewInsertBuilder()
	sb.InsertInto(tableName)
	sb.Cols(columns...)
	sb.Values(
		shop.ID, shop.GooglePlaceID, shop.BrandID, shop.Name, shop.Address,
		shop.City, shop.Country, shop.Latitude, shop.Longitude, shop.Rating,
		shop.Phone, shop.Website, shop.PhotoURL, shop.GoogleMapsURI,
		shop.Status, shop.MatchConfidence, shop.LastVerifiedAt,
		shop.Raw, shop.CreatedAt, shop.UpdatedAt,
	)

	query, args := sb.Build()

	txCtx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.ExecContext(txCtx, query, args...); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrPlaceIDTaken
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to create shop")
		return nil, fmt.Errorf("failed to create shop: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit shop create: %w", err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":   shop.ID,
		"name": shop.Name,
	}).Info("created shop")

	return r.GetByID(ctx, shop.ID)
}

// GetByID gets a shop by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Shop, error) {
	ctx, span := tracing.StartSpan(ctx, "ShopRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var shop models.Shop
	err := r.db.GetContext(ctx, &shop, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get shop by ID")
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}

	return &shop, nil
}

// GetByPlaceID gets a shop by its upstream place identifier
func (r *Repository) GetByPlaceID(ctx context.Context, placeID string) (*models.Shop, error) {
	ctx, span := tracing.StartSpan(ctx, "ShopRepository.GetByPlaceID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Equal("google_place_id", placeID))

	query, args := sb.Build()

	var shop models.Shop
	err := r.db.GetContext(ctx, &shop, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get shop by place ID")
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}

	return &shop, nil
}

// List lists shops with optional filters and pagination
func (r *Repository) List(ctx context.Context, filter models.ShopFilter, page, pageSize int) ([]models.Shop, int, error) {
	ctx, span := tracing.StartSpan(ctx, "ShopRepository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	applyFilter := func(sb *database.SelectBuilder) {
		if filter.Country != nil {
			sb.Where(sb.Equal("country", *filter.Country))
		}
		if filter.City != nil {
			sb.Where(sb.Equal("city", *filter.City))
		}
		if filter.BrandID != nil {
			sb.Where(sb.Equal("brand_id", *filter.BrandID))
		}
	}

	countSb := database.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From(tableName)
	applyFilter(countSb)
	countQuery, countArgs := countSb.Build()

	var totalCount int
	err := r.db.GetContext(ctx, &totalCount, countQuery, countArgs...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count shops")
		return nil, 0, fmt.Errorf("failed to count shops: %w", err)
	}

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	applyFilter(sb)
	sb.OrderBy("name ASC")
	sb.Limit(pageSize)
	sb.Offset(offset)

	query, args := sb.Build()

	var items []models.Shop
	err = r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list shops")
		return nil, 0, fmt.Errorf("failed to list shops: %w", err)
	}

	return items, totalCount, nil
}

// Search matches shops by name or address, case-insensitive
func (r *Repository) Search(ctx context.Context, q string, limit int) ([]models.Shop, error) {
	ctx, span := tracing.StartSpan(ctx, "ShopRepository.Search")
	defer span.End()

	if limit < 1 || limit > 100 {
		limit = 50
	}
	pattern := "%" + q + "%"

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Or(
		sb.ILike("name", pattern),
		sb.ILike("address", pattern),
	))
	sb.OrderBy("name ASC")
	sb.Limit(limit)

	query, args := sb.Build()

	var items []models.Shop
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to search shops")
		return nil, fmt.Errorf("failed to search shops: %w", err)
	}

	return items, nil
}

// Nearby returns shops inside a naive bounding box around the point. One
// degree of latitude is ~111km; longitude degrees shrink by cos(lat).
func (r *Repository) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]models.Shop, error) {
	ctx, span := tracing.StartSpan(ctx, "ShopRepository.Nearby")
	defer span.End()

	if limit < 1 || limit > 100 {
		limit = 50
	}

	latDelta := radiusKm / 111.0
	lngDelta := radiusKm / (111.0 * math.Cos(lat*math.Pi/180.0))

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(
		sb.Between("latitude", lat-latDelta, lat+latDelta),
		sb.Between("longitude", lng-lngDelta, lng+lngDelta),
	)
	sb.Limit(limit)

	query, args := sb.Build()

	var items []models.Shop
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to query nearby shops")
		return nil, fmt.Errorf("failed to query nearby shops: %w", err)
	}

	return items, nil
}

// ListPlaceIDs returns every non-null google_place_id. Import runs seed
// their dedup guard from this.
func (r *Repository) ListPlaceIDs(ctx context.Context) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "ShopRepository.ListPlaceIDs")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("google_place_id")
	sb.From(tableName)
	sb.Where(sb.IsNotNull("google_place_id"))

	query, args := sb.Build()

	var ids []string
	err := r.db.SelectContext(ctx, &ids, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list shop place IDs")
		return nil, fmt.Errorf("failed to list shop place IDs: %w", err)
	}

	return ids, nil
}

// ListLinked returns every shop currently linked to a brand, for
// re-validation passes.
func (r *Repository) ListLinked(ctx context.Context) ([]models.Shop, error) {
	ctx, span := tracing.StartSpan(ctx, "ShopRepository.ListLinked")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.IsNotNull("brand_id"))
	sb.OrderBy("brand_id ASC", "name ASC")

	query, args := sb.Build()

	var items []models.Shop
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list linked shops")
		return nil, fmt.Errorf("failed to list linked shops: %w", err)
	}

	return items, nil
}

// ClearBrandLink removes a shop's brand association and its recorded match
// confidence. Used by the relink pass when a link fails re-validation.
func (r *Repository) ClearBrandLink(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "ShopRepository.ClearBrandLink")
	defer span.End()

	sb := database.NewUpdateBuilder()
	sb.Update(tableName)
	sb.Set(
		sb.Assign("brand_id", nil),
		sb.Assign("match_confidence", nil),
		sb.Assign("updated_at", time.Now().UTC()),
	)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to clear shop brand link")
		return fmt.Errorf("failed to clear shop brand link: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":            id,
		"rows_affected": rowsAffected,
	}).Info("cleared shop brand link")

	return nil
}
