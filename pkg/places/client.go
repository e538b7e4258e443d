// Package places is a thin client for the Google Places API (New). The field
// mask is pinned to Pro-tier fields; adding rating, hours or website fields
// moves requests into a more expensive SKU.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/matcha/pkg/metrics"
	"github.com/Ramsey-B/matcha/pkg/tracing"
)

const (
	// DefaultTimeout is the default request timeout
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum response body size (10MB)
	MaxResponseSize = 10 * 1024 * 1024

	// maxPageSize is the upstream cap on results per page
	maxPageSize = 20

	// fieldMask requests Pro-tier fields only
	fieldMask = "places.id,places.displayName,places.formattedAddress,places.location,places.googleMapsUri"
)

// Place is one search result, reduced to the fields the importer consumes.
// Raw is the untouched provider payload, kept for reprocessing.
type Place struct {
	ID            string
	Name          string
	Address       string
	Latitude      float64
	Longitude     float64
	GoogleMapsURI string
	Raw           map[string]any
}

// Bias is a circular location bias for text searches
type Bias struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// Searcher is the search surface the import pipeline depends on
type Searcher interface {
	TextSearch(ctx context.Context, query string, bias *Bias, maxResults int) ([]Place, error)
	NearbySearch(ctx context.Context, lat, lng, radiusMeters float64, maxResults int) ([]Place, error)
}

// Config holds places client configuration
type Config struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	MaxPages     int
	RequestDelay time.Duration
}

// DefaultConfig returns default client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:      "https://places.googleapis.com/v1",
		Timeout:      DefaultTimeout,
		MaxPages:     3,
		RequestDelay: 300 * time.Millisecond,
	}
}

// Client implements Searcher against the live API
type Client struct {
	client *http.Client
	config Config
	logger ectologger.Logger
}

// NewClient creates a new places client
func NewClient(cfg Config, logger ectologger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxPages < 1 {
		cfg.MaxPages = DefaultConfig().MaxPages
	}
	return &Client{
		client: &http.Client{Timeout: cfg.Timeout},
		config: cfg,
		logger: logger,
	}
}

type circle struct {
	Center struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"center"`
	Radius float64 `json:"radius"`
}

func newCircle(lat, lng, radiusMeters float64) circle {
	var c circle
	c.Center.Latitude = lat
	c.Center.Longitude = lng
	c.Radius = radiusMeters
	return c
}

type searchRequest struct {
	TextQuery           string         `json:"textQuery,omitempty"`
	MaxResultCount      int            `json:"maxResultCount"`
	LanguageCode        string         `json:"languageCode"`
	PageToken           string         `json:"pageToken,omitempty"`
	LocationBias        map[string]any `json:"locationBias,omitempty"`
	LocationRestriction map[string]any `json:"locationRestriction,omitempty"`
}

type placePayload struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string `json:"formattedAddress"`
	Location         struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	GoogleMapsURI string `json:"googleMapsUri"`
}

type searchResponse struct {
	Places        []json.RawMessage `json:"places"`
	NextPageToken string            `json:"nextPageToken"`
}

func decodePlace(raw json.RawMessage) (Place, error) {
	var payload placePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Place{}, err
	}
	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return Place{}, err
	}
	return Place{
		ID:            payload.ID,
		Name:          payload.DisplayName.Text,
		Address:       payload.FormattedAddress,
		Latitude:      payload.Location.Latitude,
		Longitude:     payload.Location.Longitude,
		GoogleMapsURI: payload.GoogleMapsURI,
		Raw:           asMap,
	}, nil
}

// TextSearch runs a paginated text search, optionally biased to a circle.
// Results are capped at maxResults and at MaxPages pages.
func (c *Client) TextSearch(ctx context.Context, query string, bias *Bias, maxResults int) ([]Place, error) {
	ctx, span := tracing.StartSpan(ctx, "places.Client.TextSearch")
	defer span.End()

	body := searchRequest{
		TextQuery:    query,
		LanguageCode: "en",
	}
	if bias != nil {
		body.LocationBias = map[string]any{"circle": newCircle(bias.Latitude, bias.Longitude, bias.RadiusMeters)}
	}

	return c.paginate(ctx, "places:searchText", body, maxResults)
}

// NearbySearch runs a paginated search restricted to a circle around a point.
func (c *Client) NearbySearch(ctx context.Context, lat, lng, radiusMeters float64, maxResults int) ([]Place, error) {
	ctx, span := tracing.StartSpan(ctx, "places.Client.NearbySearch")
	defer span.End()

	body := searchRequest{
		LanguageCode:        "en",
		LocationRestriction: map[string]any{"circle": newCircle(lat, lng, radiusMeters)},
	}

	return c.paginate(ctx, "places:searchNearby", body, maxResults)
}

func (c *Client) paginate(ctx context.Context, endpoint string, body searchRequest, maxResults int) ([]Place, error) {
	if maxResults < 1 {
		maxResults = maxPageSize
	}

	var all []Place
	for page := 0; page < c.config.MaxPages; page++ {
		remaining := maxResults - len(all)
		if remaining <= 0 {
			break
		}
		if remaining > maxPageSize {
			remaining = maxPageSize
		}
		body.MaxResultCount = remaining

		resp, err := c.search(ctx, endpoint, body)
		if err != nil {
			return all, err
		}

		if len(resp.Places) == 0 {
			break
		}
		for _, raw := range resp.Places {
			p, err := decodePlace(raw)
			if err != nil {
				return all, fmt.Errorf("failed to decode place: %w", err)
			}
			all = append(all, p)
		}

		if resp.NextPageToken == "" {
			break
		}
		body.PageToken = resp.NextPageToken

		if c.config.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return all, ctx.Err()
			case <-time.After(c.config.RequestDelay):
			}
		}
	}

	return all, nil
}

func (c *Client) search(ctx context.Context, endpoint string, body searchRequest) (*searchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	url := c.config.BaseURL + "/" + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.config.APIKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask+",nextPageToken")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.PlacesRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		c.logger.WithContext(ctx).WithError(err).Errorf("places search failed: %s", endpoint)
		return nil, fmt.Errorf("places search failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.PlacesRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.PlacesRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithContext(ctx).WithFields(map[string]any{
			"endpoint":    endpoint,
			"status_code": resp.StatusCode,
			"body":        string(data),
		}).Error("places search returned non-200")
		return nil, fmt.Errorf("places search returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	c.logger.WithContext(ctx).Debugf("places %s -> %d results (%s)", endpoint, len(parsed.Places), time.Since(start))

	return &parsed, nil
}
