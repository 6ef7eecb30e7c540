package service

import (
	"context"
	"errors"
	"net/http"

	"letluckdecide/enricher/internal/client"
	"letluckdecide/enricher/internal/domain"
	"letluckdecide/enricher/internal/textutil"

	log "github.com/sirupsen/logrus"
)

// Label outcomes reported to metrics.
const (
	outcomeSkipped  = "skipped"
	outcomeComplete = "complete"
	outcomePartial  = "partial"
	outcomeInvalid  = "invalid"
)

// Fetch outcomes reported to metrics.
const (
	fetchOK    = "ok"
	fetchEmpty = "empty"
	fetchError = "error"
)

const (
	kindSummary = "summary"
	kindImages  = "images"
)

// runState is the mutable state of one enrich run. It is threaded through
// processLabel instead of living on the Service.
type runState struct {
	store     domain.Store
	processed map[domain.Category]int
	total     int
	skipped   int
}

func newRunState(store domain.Store) *runState {
	if store == nil {
		store = make(domain.Store)
	}
	return &runState{
		store:     store,
		processed: make(map[domain.Category]int),
	}
}

func (r *runState) count(category domain.Category) {
	r.processed[category]++
	r.total++
}

// processLabel resolves one label against the store. Summary and images are
// gated separately: a summary is refetched until the entry is complete,
// images are fetched only while none have been accepted.
func (s *Service) processLabel(ctx context.Context, state *runState, category domain.Category, label string) {
	slug := textutil.Slugify(label)
	if slug == "" {
		log.Warnf("⚠️ %s: label has no usable slug, ignoring", label)
		s.metrics.LabelProcessed(category.String(), outcomeInvalid)
		return
	}

	existing := state.store[slug]
	hadSummary := existing.HasSummary()
	hadImages := existing.HasImages()

	if existing != nil && !s.options.Force && hadSummary && hadImages {
		log.Infof("⏭️ %s: using existing summary and images", label)
		state.count(category)
		state.skipped++
		s.metrics.LabelProcessed(category.String(), outcomeSkipped)
		return
	}

	s.pacer.Take()

	entry := existing
	if entry == nil || s.options.Force {
		entry = domain.NewEntry(category, label)
		state.store[slug] = entry
	}

	s.refreshSummary(ctx, entry, label)

	if !hadImages || s.options.Force {
		s.refreshImages(ctx, entry, category, label)
	}

	state.count(category)
	if entry.Complete() {
		s.metrics.LabelProcessed(category.String(), outcomeComplete)
	} else {
		s.metrics.LabelProcessed(category.String(), outcomePartial)
	}
}

// refreshSummary leaves the entry untouched unless a usable summary arrives.
func (s *Service) refreshSummary(ctx context.Context, entry *domain.Entry, label string) {
	summary, err := s.client.FetchSummary(ctx, label)
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
		log.Infof("⏭️ %s: no page (%v)", label, err)
		s.metrics.Fetch(kindSummary, fetchEmpty)
		return
	}
	if err != nil {
		log.Errorf("❌ %s: summary fetch failed: %v", label, err)
		s.metrics.Fetch(kindSummary, fetchError)
		return
	}
	if summary == nil {
		log.Infof("⏭️ %s: no page / disambiguation", label)
		s.metrics.Fetch(kindSummary, fetchEmpty)
		return
	}

	entry.Summary = textutil.TruncateSummary(summary.Extract, s.options.SummaryMaxLength)
	if summary.Title != "" && summary.Title != label {
		entry.Title = summary.Title
	}
	log.Infof("✅ %s: summary found", label)
	s.metrics.Fetch(kindSummary, fetchOK)
}

// refreshImages always leaves entry.Images non-nil; an empty list records
// that the search ran and nothing qualified.
func (s *Service) refreshImages(ctx context.Context, entry *domain.Entry, category domain.Category, label string) {
	limit := s.imageCap(category)
	if limit <= 0 {
		log.Debugf("%s: image cap for %s is zero, not searching", label, category)
		entry.Images = []domain.Attribution{}
		return
	}

	candidates, err := s.client.FetchImageCandidates(ctx, label, s.options.SearchLimit)
	if err != nil {
		log.Errorf("❌ %s: image search failed: %v", label, err)
		s.metrics.Fetch(kindImages, fetchError)
		entry.Images = []domain.Attribution{}
		return
	}

	entry.Images = s.policy.Select(candidates, limit, func(candidate domain.ImageCandidate, reason RejectReason) {
		log.Debugf("🚫 %s: %s rejected (%s)", label, candidate.Title, reason)
		s.metrics.ImageRejected(string(reason))
	})

	if len(entry.Images) == 0 {
		log.Infof("⏭️ %s: no valid images", label)
		s.metrics.Fetch(kindImages, fetchEmpty)
		return
	}
	log.Infof("✅ %s: images linked %d", label, len(entry.Images))
	s.metrics.Fetch(kindImages, fetchOK)
}

func (s *Service) imageCap(category domain.Category) int {
	if limit, ok := s.options.ImageCaps[category]; ok {
		return limit
	}
	return category.MaxImages()
}
