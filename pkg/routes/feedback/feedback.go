// Package feedback accepts user feedback and forwards it to a webhook. The
// service stores nothing; the webhook owner decides what to do with it.
package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/matcha/pkg/models"
	"github.com/Ramsey-B/matcha/pkg/tracing"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// Forwarder posts feedback payloads to a configured webhook
type Forwarder struct {
	client     *http.Client
	webhookURL string
	logger     ectologger.Logger
}

// NewForwarder creates a new feedback forwarder. An empty webhook URL
// disables forwarding; submissions are logged and acknowledged.
func NewForwarder(webhookURL string, logger ectologger.Logger) *Forwarder {
	return &Forwarder{
		client:     &http.Client{Timeout: 10 * time.Second},
		webhookURL: webhookURL,
		logger:     logger,
	}
}

// Forward delivers one feedback submission
func (f *Forwarder) Forward(ctx context.Context, req models.FeedbackRequest) error {
	ctx, span := tracing.StartSpan(ctx, "feedback.Forwarder.Forward")
	defer span.End()

	if f.webhookURL == "" {
		f.logger.WithContext(ctx).WithFields(map[string]any{
			"email":   req.Email,
			"subject": req.Subject,
		}).Info("Feedback received, no webhook configured")
		return nil
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode feedback: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, f.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(httpReq)
	if err != nil {
		f.logger.WithContext(ctx).WithError(err).Error("Failed to forward feedback")
		return fmt.Errorf("failed to forward feedback: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("feedback webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// Register registers feedback routes
func Register(g *echo.Group) {
	g.POST("", Submit)
}

// Submit accepts a feedback submission and forwards it
func Submit(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "feedback_handler.Submit")
	defer span.End()

	var req models.FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, forwarder, err := ectoinject.GetContext[*Forwarder](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get forwarder")
	}

	if err := forwarder.Forward(ctx, req); err != nil {
		return httperror.NewHTTPError(http.StatusBadGateway, "failed to deliver feedback")
	}

	return c.JSON(http.StatusAccepted, map[string]string{"status": "received"})
}
