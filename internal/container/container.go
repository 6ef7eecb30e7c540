package container

import (
	"context"
	"fmt"
	"time"

	"letluckdecide/enricher/internal/client"
	"letluckdecide/enricher/internal/config"
	"letluckdecide/enricher/internal/metrics"
	"letluckdecide/enricher/internal/repository"
	"letluckdecide/enricher/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

// Container holds all initialized components
type Container struct {
	Config  *config.Config
	Client  client.ReferenceClient
	Metrics *metrics.Metrics
	Policy  service.AcceptancePolicy

	pacer      ratelimit.Limiter
	repository repository.EnrichRepository
}

// New creates a new container. The store backend is opened lazily by Enrich,
// after the label file has been read.
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config:  cfg,
		Client:  client.NewReferenceClient(cfg),
		Metrics: metrics.New(),
		Policy:  service.NewAcceptancePolicy(cfg.Commons, cfg.Enrich.MinImageWidth),
		pacer:   newPacer(cfg.Enrich.DelayMs),
	}

	return container, nil
}

// newPacer spaces consecutive label lookups delayMs apart.
func newPacer(delayMs int) ratelimit.Limiter {
	if delayMs <= 0 {
		return ratelimit.NewUnlimited()
	}
	return ratelimit.New(1, ratelimit.Per(time.Duration(delayMs)*time.Millisecond), ratelimit.WithoutSlack)
}

// Extract runs the label extraction stage.
func (c *Container) Extract(ctx context.Context) error {
	_, err := service.ExtractLabels(c.Config.Source.Path, c.Config.Source.KeywordsPath)
	return err
}

// Enrich runs the merge stage against the configured store backend.
func (c *Container) Enrich(ctx context.Context) error {
	labels, err := repository.ReadLabels(c.Config.Source.KeywordsPath)
	if err != nil {
		return err
	}

	if c.repository == nil {
		repo, err := c.openRepository(ctx)
		if err != nil {
			return err
		}
		c.repository = repo
	}

	svc := service.NewService(
		c.repository,
		c.Client,
		c.pacer,
		c.Policy,
		c.Metrics,
		service.OptionsFromConfig(c.Config),
	)

	report, err := svc.Enrich(ctx, labels)
	if err != nil {
		return err
	}
	report.Log()

	if err := c.Metrics.WriteTextfile(c.Config.Metrics.Textfile); err != nil {
		log.Warnf("⚠️ %v", err)
	}

	return nil
}

// Run executes both stages in sequence
func (c *Container) Run(ctx context.Context) error {
	if err := c.Extract(ctx); err != nil {
		return err
	}
	return c.Enrich(ctx)
}

func (c *Container) openRepository(ctx context.Context) (repository.EnrichRepository, error) {
	switch c.Config.Store.Backend {
	case config.BackendRedis:
		return c.openRedis(ctx)
	case config.BackendPostgres:
		return c.openPostgres(ctx)
	default:
		repo, err := repository.NewFileRepository(c.Config.Store.Path)
		if err != nil {
			return nil, err
		}
		log.Infof("✅ Using file store %s", c.Config.Store.Path)
		return repo, nil
	}
}

func (c *Container) openRedis(ctx context.Context) (repository.EnrichRepository, error) {
	cfg := c.Config.Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	// Test connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("✅ Connected to Redis successfully")
	return repository.NewRedisRepository(rdb, cfg.Key), nil
}

func (c *Container) openPostgres(ctx context.Context) (repository.EnrichRepository, error) {
	cfg := c.Config.Database

	if err := repository.RunMigrations(cfg.URL()); err != nil {
		return nil, err
	}

	db, err := pgxpool.New(ctx, cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	log.Info("✅ Connected to Postgres successfully")
	location := fmt.Sprintf("postgres://%s:%d/%s enrich_entries", cfg.Host, cfg.Port, cfg.Name)
	return repository.NewPostgresRepository(db, location, db.Close), nil
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	if c.repository == nil {
		return nil
	}

	log.Debug("Closing enrichment store...")
	if err := c.repository.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	c.repository = nil
	return nil
}
