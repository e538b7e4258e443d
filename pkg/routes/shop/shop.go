package shop

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Ramsey-B/matcha/internal/repositories/shop"
	"github.com/Ramsey-B/matcha/pkg/models"
	"github.com/Ramsey-B/matcha/pkg/tracing"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// Register registers shop routes
func Register(g *echo.Group) {
	g.GET("", List)
	g.POST("", Create)
	g.GET("/search", Search)
	g.GET("/nearby", Nearby)
	g.GET("/:id", Get)
}

// List returns shops, filtered and paginated
func List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "shop_handler.List")
	defer span.End()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	filter := models.ShopFilter{}
	if v := c.QueryParam("country"); v != "" {
		filter.Country = &v
	}
	if v := c.QueryParam("city"); v != "" {
		filter.City = &v
	}
	if v := c.QueryParam("brand_id"); v != "" {
		filter.BrandID = &v
	}

	ctx, repo, err := ectoinject.GetContext[*shop.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	items, totalCount, err := repo.List(ctx, filter, page, pageSize)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to list shops")
	}

	return c.JSON(http.StatusOK, models.ShopListResponse{
		Items:      items,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	})
}

// Create creates a new shop
func Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "shop_handler.Create")
	defer span.End()

	var req models.CreateShopRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*shop.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.Create(ctx, req.ToShop())
	if err != nil {
		if errors.Is(err, shop.ErrPlaceIDTaken) {
			return httperror.NewHTTPError(http.StatusConflict, "shop with this google place id already exists")
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create shop")
	}

	return c.JSON(http.StatusCreated, result)
}

// Get returns a single shop by ID
func Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "shop_handler.Get")
	defer span.End()

	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*shop.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.GetByID(ctx, id)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get shop")
	}
	if result == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "shop not found")
	}

	return c.JSON(http.StatusOK, result)
}

// Search returns shops whose name or address matches the query
func Search(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "shop_handler.Search")
	defer span.End()

	q := c.QueryParam("q")
	if q == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	ctx, repo, err := ectoinject.GetContext[*shop.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	items, err := repo.Search(ctx, q, limit)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to search shops")
	}

	return c.JSON(http.StatusOK, models.ShopListResponse{
		Items:      items,
		TotalCount: len(items),
		Page:       1,
		PageSize:   limit,
	})
}

// Nearby returns shops within radius_km of a point
func Nearby(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "shop_handler.Nearby")
	defer span.End()

	lat, latErr := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if latErr != nil || lngErr != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "lat and lng are required")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return httperror.NewHTTPError(http.StatusBadRequest, "lat or lng out of range")
	}

	radiusKm, _ := strconv.ParseFloat(c.QueryParam("radius_km"), 64)
	if radiusKm <= 0 {
		radiusKm = 5
	}
	if radiusKm > 100 {
		radiusKm = 100
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	ctx, repo, err := ectoinject.GetContext[*shop.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	items, err := repo.Nearby(ctx, lat, lng, radiusKm, limit)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to find nearby shops")
	}

	return c.JSON(http.StatusOK, models.ShopListResponse{
		Items:      items,
		TotalCount: len(items),
		Page:       1,
		PageSize:   limit,
	})
}
