package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func placeJSON(id, name string) map[string]any {
	return map[string]any{
		"id":               id,
		"displayName":      map[string]any{"text": name},
		"formattedAddress": "123 Main St",
		"location":         map[string]any{"latitude": 37.78, "longitude": -122.41},
		"googleMapsUri":    "https://maps.google.com/?cid=" + id,
	}
}

func TestClient_TextSearch(t *testing.T) {
	t.Run("paginates until the token runs out", func(t *testing.T) {
		var requests []map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/places:searchText", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
			assert.Contains(t, r.Header.Get("X-Goog-FieldMask"), "places.id")
			assert.Contains(t, r.Header.Get("X-Goog-FieldMask"), "nextPageToken")

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			requests = append(requests, body)

			w.Header().Set("Content-Type", "application/json")
			if body["pageToken"] == nil {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"places":        []any{placeJSON("p1", "Gong Cha"), placeJSON("p2", "Tiger Sugar")},
					"nextPageToken": "page-2",
				})
				return
			}
			assert.Equal(t, "page-2", body["pageToken"])
			_ = json.NewEncoder(w).Encode(map[string]any{
				"places": []any{placeJSON("p3", "Boba Guys")},
			})
		}))
		defer server.Close()

		client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, MaxPages: 5}, testLogger())

		results, err := client.TextSearch(context.Background(), "bubble tea", &Bias{Latitude: 37.78, Longitude: -122.41, RadiusMeters: 5000}, 60)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "p1", results[0].ID)
		assert.Equal(t, "Gong Cha", results[0].Name)
		assert.Equal(t, "123 Main St", results[0].Address)
		assert.Equal(t, 37.78, results[0].Latitude)
		assert.Equal(t, "p1", results[0].Raw["id"])
		assert.Equal(t, "p3", results[2].ID)

		require.Len(t, requests, 2)
		assert.Equal(t, "bubble tea", requests[0]["textQuery"])
		assert.NotNil(t, requests[0]["locationBias"])
	})

	t.Run("caps results at maxResults", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(2), body["maxResultCount"])

			_ = json.NewEncoder(w).Encode(map[string]any{
				"places": []any{placeJSON("p1", "A"), placeJSON("p2", "B")},
			})
		}))
		defer server.Close()

		client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL}, testLogger())

		results, err := client.TextSearch(context.Background(), "bubble tea", nil, 2)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error": "denied"}`))
		}))
		defer server.Close()

		client := NewClient(Config{APIKey: "bad-key", BaseURL: server.URL}, testLogger())

		_, err := client.TextSearch(context.Background(), "bubble tea", nil, 20)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403")
	})
}

func TestClient_NearbySearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places:searchNearby", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotNil(t, body["locationRestriction"])
		assert.Nil(t, body["textQuery"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"places": []any{placeJSON("p1", "Sharetea")},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL}, testLogger())

	results, err := client.NearbySearch(context.Background(), 25.03, 121.56, 15000, 20)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Sharetea", results[0].Name)
}
