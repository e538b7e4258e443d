package brand

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Ramsey-B/matcha/internal/repositories/brand"
	"github.com/Ramsey-B/matcha/pkg/models"
	"github.com/Ramsey-B/matcha/pkg/tracing"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// Register registers brand routes
func Register(g *echo.Group) {
	g.GET("", List)
	g.POST("", Create)
	g.GET("/:id", Get)
}

// List returns brands, paginated
func List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "brand_handler.List")
	defer span.End()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	ctx, repo, err := ectoinject.GetContext[*brand.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	items, totalCount, err := repo.List(ctx, page, pageSize)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to list brands")
	}

	return c.JSON(http.StatusOK, models.BrandListResponse{
		Items:      items,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	})
}

// Create creates a new brand
func Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "brand_handler.Create")
	defer span.End()

	var req models.CreateBrandRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*brand.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.Create(ctx, req)
	if err != nil {
		if errors.Is(err, brand.ErrNameTaken) {
			return httperror.NewHTTPError(http.StatusConflict, "brand with this name already exists")
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create brand")
	}

	return c.JSON(http.StatusCreated, result)
}

// Get returns a single brand by ID
func Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "brand_handler.Get")
	defer span.End()

	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*brand.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.GetByID(ctx, id)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get brand")
	}
	if result == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "brand not found")
	}

	return c.JSON(http.StatusOK, result)
}
