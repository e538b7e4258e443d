package feedback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/matcha/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestForwarder_Forward(t *testing.T) {
	submission := models.FeedbackRequest{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Missing shop",
		Message: "The Gong Cha on Xinyi Road is not listed.",
	}

	t.Run("posts the payload to the webhook", func(t *testing.T) {
		var received models.FeedbackRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		forwarder := NewForwarder(server.URL, testLogger())
		require.NoError(t, forwarder.Forward(context.Background(), submission))
		assert.Equal(t, submission, received)
	})

	t.Run("webhook failure is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		forwarder := NewForwarder(server.URL, testLogger())
		err := forwarder.Forward(context.Background(), submission)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("no webhook configured is a no-op", func(t *testing.T) {
		forwarder := NewForwarder("", testLogger())
		require.NoError(t, forwarder.Forward(context.Background(), submission))
	})
}
