package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/matcha/pkg/middleware"
	"github.com/Ramsey-B/matcha/pkg/models"
	brandroutes "github.com/Ramsey-B/matcha/pkg/routes/brand"
	feedbackroutes "github.com/Ramsey-B/matcha/pkg/routes/feedback"
	shoproutes "github.com/Ramsey-B/matcha/pkg/routes/shop"
)

// TestAPIHelpers contains helper functions for API testing
type TestAPIHelpers struct {
	t *testing.T
	e *echo.Echo
}

func NewTestAPIHelpers(t *testing.T) *TestAPIHelpers {
	e := echo.New()
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	e.HTTPErrorHandler = middleware.Error(logger)

	api := e.Group("/api")
	brandroutes.Register(api.Group("/brands"))
	shoproutes.Register(api.Group("/shops"))
	feedbackroutes.Register(api.Group("/feedback"))

	return &TestAPIHelpers{t: t, e: e}
}

func (h *TestAPIHelpers) MakeRequest(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(h.t, err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func TestBrandAPI_Validation(t *testing.T) {
	h := NewTestAPIHelpers(t)

	t.Run("CreateBrand_MissingName", func(t *testing.T) {
		rec := h.MakeRequest(http.MethodPost, "/api/brands", map[string]any{
			"description": "no name at all",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("CreateBrand_BadLogoURL", func(t *testing.T) {
		rec := h.MakeRequest(http.MethodPost, "/api/brands", map[string]any{
			"name":     "Gong Cha",
			"logo_url": "not a url",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("CreateBrand_ValidRequestShape", func(t *testing.T) {
		req := models.CreateBrandRequest{Name: "Gong Cha"}

		data, err := json.Marshal(req)
		require.NoError(t, err)

		var parsed map[string]any
		require.NoError(t, json.Unmarshal(data, &parsed))
		assert.Equal(t, "Gong Cha", parsed["name"])
		assert.NotContains(t, parsed, "logo_url")
	})
}

func TestShopAPI_Validation(t *testing.T) {
	h := NewTestAPIHelpers(t)

	t.Run("CreateShop_MissingAddress", func(t *testing.T) {
		rec := h.MakeRequest(http.MethodPost, "/api/shops", map[string]any{
			"name":    "Gong Cha Taipei Main",
			"country": "TW",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("CreateShop_LatitudeOutOfRange", func(t *testing.T) {
		rec := h.MakeRequest(http.MethodPost, "/api/shops", map[string]any{
			"name":     "Gong Cha Taipei Main",
			"address":  "No. 1, Section 1",
			"country":  "TW",
			"latitude": 95.0,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("CreateShop_UnknownStatus", func(t *testing.T) {
		rec := h.MakeRequest(http.MethodPost, "/api/shops", map[string]any{
			"name":    "Gong Cha Taipei Main",
			"address": "No. 1, Section 1",
			"country": "TW",
			"status":  "abandoned",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("SearchShops_MissingQuery", func(t *testing.T) {
		rec := h.MakeRequest(http.MethodGet, "/api/shops/search", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NearbyShops_MissingCoordinates", func(t *testing.T) {
		rec := h.MakeRequest(http.MethodGet, "/api/shops/nearby", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NearbyShops_CoordinatesOutOfRange", func(t *testing.T) {
		rec := h.MakeRequest(http.MethodGet, "/api/shops/nearby?lat=91&lng=0", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("CreateShop_RequestToShop", func(t *testing.T) {
		placeID := "place-1"
		req := models.CreateShopRequest{
			GooglePlaceID: &placeID,
			Name:          "Gong Cha Taipei Main",
			Address:       "No. 1, Section 1",
			Country:       "TW",
			Latitude:      25.03,
			Longitude:     121.56,
		}

		shop := req.ToShop()
		assert.Equal(t, req.Name, shop.Name)
		assert.Equal(t, req.Country, shop.Country)
		require.NotNil(t, shop.GooglePlaceID)
		assert.Equal(t, placeID, *shop.GooglePlaceID)
		assert.Empty(t, shop.ID)
	})
}

func TestFeedbackAPI_Validation(t *testing.T) {
	h := NewTestAPIHelpers(t)

	t.Run("Submit_MissingEmail", func(t *testing.T) {
		rec := h.MakeRequest(http.MethodPost, "/api/feedback", map[string]any{
			"name":    "Ada",
			"message": "hello",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Submit_InvalidEmail", func(t *testing.T) {
		rec := h.MakeRequest(http.MethodPost, "/api/feedback", map[string]any{
			"name":    "Ada",
			"email":   "not-an-email",
			"message": "hello",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
