package brand

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/matcha/pkg/database"
	"github.com/Ramsey-B/matcha/pkg/models"
	"github.com/Ramsey-B/matcha/pkg/tracing"
	"github.com/google/uuid"
)

// ErrNameTaken is returned when a create collides with the unique name index
var ErrNameTaken = fmt.Errorf("brand name already exists")

// BrandRepository defines the interface for brand operations
type BrandRepository interface {
	Create(ctx context.Context, req models.CreateBrandRequest) (*models.Brand, error)
	GetByID(ctx context.Context, id string) (*models.Brand, error)
	GetByName(ctx context.Context, name string) (*models.Brand, error)
	List(ctx context.Context, page, pageSize int) ([]models.Brand, int, error)
	ListAll(ctx context.Context) ([]models.Brand, error)
}

// Repository implements BrandRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new brand repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

const tableName = "brands"

var columns = []string{"id", "name", "name_zh", "description", "origin_country", "logo_url", "website", "created_at", "updated_at"}

// Create creates a new brand. The unique index on name is the authority on
// duplicates; a violation comes back as ErrNameTaken.
func (r *Repository) Create(ctx context.Context, req models.CreateBrandRequest) (*models.Brand, error) {
	ctx, span := tracing.StartSpan(ctx, "BrandRepository.Create")
	defer span.End()

	now := time.Now().UTC()
	id := uuid.New().String()

	sb := database.NewInsertBuilder()
	sb.InsertInto(tableName)
	sb.Cols(columns...)
	sb.Values(id, req.Name, req.NameZH, req.Description, req.OriginCountry, req.LogoURL, req.Website, now, now)

	query, args := sb.Build()

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to create brand")
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":   id,
		"name": req.Name,
	}).Info("created brand")

	return r.GetByID(ctx, id)
}

// GetByID gets a brand by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Brand, error) {
	ctx, span := tracing.StartSpan(ctx, "BrandRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var brand models.Brand
	err := r.db.GetContext(ctx, &brand, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get brand by ID")
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}

	return &brand, nil
}

// GetByName gets a brand by its canonical name
func (r *Repository) GetByName(ctx context.Context, name string) (*models.Brand, error) {
	ctx, span := tracing.StartSpan(ctx, "BrandRepository.GetByName")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Equal("name", name))

	query, args := sb.Build()

	var brand models.Brand
	err := r.db.GetContext(ctx, &brand, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get brand by name")
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}

	return &brand, nil
}

// List lists brands with pagination
func (r *Repository) List(ctx context.Context, page, pageSize int) ([]models.Brand, int, error) {
	ctx, span := tracing.StartSpan(ctx, "BrandRepository.List")
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

	countSb := database.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From(tableName)
	countQuery, countArgs := countSb.Build()

	var totalCount int
	err := r.db.GetContext(ctx, &totalCount, countQuery, countArgs...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count brands")
		return nil, 0, fmt.Errorf("failed to count brands: %w", err)
	}

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.OrderBy("name ASC")
	sb.Limit(pageSize)
	sb.Offset(offset)

	query, args := sb.Build()

	var items []models.Brand
	err = r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list brands")
		return nil, 0, fmt.Errorf("failed to list brands: %w", err)
	}

	return items, totalCount, nil
}

// ListAll returns every brand, ordered by name. The import tooling scans the
// full set when attributing discovered shops.
func (r *Repository) ListAll(ctx context.Context) ([]models.Brand, error) {
	ctx, span := tracing.StartSpan(ctx, "BrandRepository.ListAll")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.OrderBy("name ASC")

	query, args := sb.Build()

	var items []models.Brand
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list all brands")
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}

	return items, nil
}
