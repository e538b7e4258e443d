package app

import (
	"github.com/Gobusters/ectoinject"

	"github.com/Ramsey-B/matcha/internal/repositories/brand"
	"github.com/Ramsey-B/matcha/internal/repositories/shop"
	"github.com/Ramsey-B/matcha/pkg/routes/feedback"
)

// RegisterDependencies places shared instances in the default injection
// container so route handlers can resolve them from the request context.
func (a *App) RegisterDependencies() error {
	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		return err
	}

	if err := ectoinject.RegisterInstance[*brand.Repository](container, a.Brands); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*shop.Repository](container, a.Shops); err != nil {
		return err
	}

	forwarder := feedback.NewForwarder(a.Config.FeedbackWebhookURL, a.Logger)
	if err := ectoinject.RegisterInstance[*feedback.Forwarder](container, forwarder); err != nil {
		return err
	}

	return nil
}
