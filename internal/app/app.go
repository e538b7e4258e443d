// Package app wires shared infrastructure for the binaries: configuration,
// logging, tracing, the database, repositories and the matcher.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Ramsey-B/matcha/config"
	"github.com/Ramsey-B/matcha/internal/repositories/brand"
	"github.com/Ramsey-B/matcha/internal/repositories/shop"
	"github.com/Ramsey-B/matcha/pkg/database"
	"github.com/Ramsey-B/matcha/pkg/events"
	"github.com/Ramsey-B/matcha/pkg/kafka"
	"github.com/Ramsey-B/matcha/pkg/logger"
	"github.com/Ramsey-B/matcha/pkg/matching"
	"github.com/Ramsey-B/matcha/pkg/startup"
	"github.com/Ramsey-B/matcha/pkg/tracing"
	"github.com/Ramsey-B/matcha/pkg/tracing/exporters"
)

// App holds the shared dependencies of a running binary
type App struct {
	Config  config.Config
	Logger  ectologger.Logger
	DB      database.DB
	SQLX    *sqlx.DB
	Brands  *brand.Repository
	Shops   *shop.Repository
	Matcher *matching.Matcher
	Emitter *events.Emitter

	producer       *kafka.Producer
	tracerProvider *sdktrace.TracerProvider
}

// New loads configuration and brings up every shared dependency. The database
// connection is retried with backoff, then migrations run before anything
// else touches the schema.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.AppName, cfg.PrettyLogs)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &App{Config: cfg, Logger: log}

	if cfg.TracingEnabled {
		if err := a.initTracing(ctx); err != nil {
			return nil, err
		}
	}

	if err := a.initDatabase(ctx); err != nil {
		return nil, err
	}

	a.Brands = brand.NewRepository(a.DB, log)
	a.Shops = shop.NewRepository(a.DB, log)
	a.Matcher = matching.NewMatcher(matching.DefaultAliasRegistry(), matching.Config{
		FuzzyThreshold: cfg.FuzzyMatchThreshold,
	})

	var publisher events.Publisher
	if cfg.KafkaEnabled {
		a.producer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, log)
		publisher = a.producer
	}
	a.Emitter = events.NewEmitter(publisher, log)

	return a, nil
}

func (a *App) initTracing(ctx context.Context) error {
	exporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
		Endpoint: a.Config.TracingOTLPEndpoint,
		Protocol: a.Config.TracingOTLPProtocol,
		Insecure: a.Config.TracingOTLPInsecure,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	a.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(sdkresource.NewSchemaless(
			attribute.String("service.name", a.Config.AppName),
		)),
	)
	otel.SetTracerProvider(a.tracerProvider)
	tracing.SetTracer(a.tracerProvider.Tracer(a.Config.AppName))
	return nil
}

func (a *App) initDatabase(ctx context.Context) error {
	dep := &databaseDependency{config: a.Config}

	boot := startup.NewStartup[App](a.Logger, a.Config.StartupMaxAttempts)
	boot.AddDependency(dep)
	if err := boot.Start(ctx); err != nil {
		return fmt.Errorf("failed to start database: %w", err)
	}

	a.SQLX = dep.db
	a.DB = database.NewDatabaseInstance(dep.db, a.Logger)

	driver, err := migratepg.WithInstance(dep.db.DB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrations := database.NewMigrationService(a.Logger, &database.MigrationConfig{
		MigrationFolderPath: a.Config.DatabaseMigrationFolderPath,
		Version:             uint(a.Config.DatabaseMigrationVersion),
		Force:               a.Config.DatabaseMigrationForce,
		AutoRollback:        a.Config.DatabaseMigrationAutoRollback,
	})
	if err := migrations.Migrate(a.Config.DatabaseName, driver); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close shuts down shared dependencies in reverse order of creation
func (a *App) Close(ctx context.Context) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.Logger.WithContext(ctx).WithError(err).Error("Failed to close kafka producer")
		}
	}
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			a.Logger.WithContext(ctx).WithError(err).Error("Failed to shut down tracer provider")
		}
	}
	if a.SQLX != nil {
		if err := a.SQLX.Close(); err != nil {
			a.Logger.WithContext(ctx).WithError(err).Error("Failed to close database")
		}
	}
}

type databaseDependency struct {
	config config.Config
	db     *sqlx.DB
}

func (d *databaseDependency) GetName() string {
	return "postgres"
}

func (d *databaseDependency) DependsOn() []string {
	return nil
}

func (d *databaseDependency) Start(ctx context.Context) error {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.config.DatabaseHost,
		d.config.DatabasePort,
		d.config.DatabaseUserName,
		d.config.DatabasePassword,
		d.config.DatabaseName,
		d.config.DatabaseSSLMode,
	)

	db, err := sqlx.ConnectContext(ctx, d.config.DatabaseDriver, dsn)
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(d.config.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(d.config.DatabaseMaxIdleConns)
	db.SetConnMaxLifetime(d.config.DatabaseConnMaxLifetime)

	d.db = db
	return nil
}

func (d *databaseDependency) Stop(context.Context) error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
