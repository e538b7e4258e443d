package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/Ramsey-B/matcha/internal/app"
	"github.com/Ramsey-B/matcha/pkg/middleware"
	brandroutes "github.com/Ramsey-B/matcha/pkg/routes/brand"
	feedbackroutes "github.com/Ramsey-B/matcha/pkg/routes/feedback"
	healthroutes "github.com/Ramsey-B/matcha/pkg/routes/health"
	shoproutes "github.com/Ramsey-B/matcha/pkg/routes/shop"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer a.Close(context.Background())

	if err := a.RegisterDependencies(); err != nil {
		a.Logger.WithError(err).Error("Failed to register dependencies")
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = time.Duration(a.Config.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(a.Config.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(a.Config.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.ReadHeaderTimeout = time.Duration(a.Config.ReadHeaderTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = a.Config.MaxHeaderBytes

	e.Use(otelecho.Middleware(a.Config.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(a.Logger))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: a.Config.AllowOrigins,
		AllowMethods: a.Config.AllowMethods,
	}))
	e.HTTPErrorHandler = middleware.Error(a.Logger)

	checker := healthroutes.NewChecker(a.SQLX, version)
	checker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	brandroutes.Register(api.Group("/brands"))
	shoproutes.Register(api.Group("/shops"))
	feedbackroutes.Register(api.Group("/feedback"))

	go func() {
		addr := fmt.Sprintf(":%d", a.Config.Port)
		a.Logger.WithField("addr", addr).Info("Starting HTTP server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.WithError(err).Error("HTTP server stopped")
			stop()
		}
	}()
	checker.SetReady(true)

	<-ctx.Done()

	checker.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		a.Logger.WithError(err).Error("Failed to shut down HTTP server cleanly")
	}
}
