package models

// FeedbackRequest is the contact-form payload forwarded to the configured
// webhook. Nothing is persisted.
type FeedbackRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message" validate:"required"`
}
