package service

import (
	"context"
	"fmt"

	"letluckdecide/enricher/internal/client"
	"letluckdecide/enricher/internal/config"
	"letluckdecide/enricher/internal/domain"
	"letluckdecide/enricher/internal/metrics"
	"letluckdecide/enricher/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

// Options are the run switches of the enrich stage.
type Options struct {
	// Force discards the existing store and refetches everything.
	Force bool
	// Limit caps the number of labels handled in one run; 0 means no cap.
	Limit            int
	SummaryMaxLength int
	SearchLimit      int
	// ImageCaps overrides Category.MaxImages per category.
	ImageCaps map[domain.Category]int
}

// OptionsFromConfig builds run options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	caps := make(map[domain.Category]int, len(cfg.Enrich.ImageCaps))
	for name, limit := range cfg.Enrich.ImageCaps {
		caps[domain.Category(name)] = limit
	}
	return Options{
		Force:            cfg.Enrich.Force,
		Limit:            cfg.Enrich.Limit,
		SummaryMaxLength: cfg.Enrich.SummaryMaxLength,
		SearchLimit:      cfg.Commons.SearchLimit,
		ImageCaps:        caps,
	}
}

type Service struct {
	repository repository.EnrichRepository
	client     client.ReferenceClient
	pacer      ratelimit.Limiter
	policy     AcceptancePolicy
	metrics    *metrics.Metrics
	options    Options
}

func NewService(
	repository repository.EnrichRepository,
	client client.ReferenceClient,
	pacer ratelimit.Limiter,
	policy AcceptancePolicy,
	metrics *metrics.Metrics,
	options Options,
) *Service {
	if pacer == nil {
		pacer = ratelimit.NewUnlimited()
	}
	return &Service{
		repository: repository,
		client:     client,
		pacer:      pacer,
		policy:     policy,
		metrics:    metrics,
		options:    options,
	}
}

// Report summarises one enrich run.
type Report struct {
	Categories []domain.Category
	Processed  map[domain.Category]int
	Total      int
	Skipped    int
	Location   string
}

// Log prints the per-category counts and where the store was written.
func (r *Report) Log() {
	log.Infof("✅ Processed %d keywords (%d already complete)", r.Total, r.Skipped)
	for _, category := range r.Categories {
		if count := r.Processed[category]; count > 0 {
			log.Infof("  %s: %d", category, count)
		}
	}
	log.Infof("Output: %s", r.Location)
}

// Enrich loads the store, resolves every label in category order and saves
// the store once at the end. Per-label fetch failures never fail the run.
// With Force the existing store is not read and the saved store holds only
// the labels of this run.
func (s *Service) Enrich(ctx context.Context, labels domain.LabelSet) (*Report, error) {
	store := make(domain.Store)
	if s.options.Force {
		log.Warnf("⚠️ Force mode: rebuilding %s from scratch", s.repository.Location())
	} else {
		loaded, err := s.repository.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load enrichment store: %w", err)
		}
		store = loaded
	}
	log.Infof("🔄 Enriching %d labels into %s", labels.Total(), s.repository.Location())

	state := newRunState(store)
	categories := labels.Categories()

outer:
	for _, category := range categories {
		for _, label := range labels[category] {
			if s.options.Limit > 0 && state.total >= s.options.Limit {
				log.Infof("Limit of %d labels reached", s.options.Limit)
				break outer
			}
			s.processLabel(ctx, state, category, label)
		}
	}

	if err := s.repository.Save(ctx, state.store); err != nil {
		return nil, fmt.Errorf("failed to save enrichment store: %w", err)
	}

	return &Report{
		Categories: categories,
		Processed:  state.processed,
		Total:      state.total,
		Skipped:    state.skipped,
		Location:   s.repository.Location(),
	}, nil
}
