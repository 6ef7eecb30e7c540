package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"letluckdecide/enricher/internal/config"
	"letluckdecide/enricher/internal/domain"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// ReferenceClient is the pair of lookups the enrich stage needs from the
// external reference services.
type ReferenceClient interface {
	// FetchSummary returns nil without an error when the label has no usable
	// page (disambiguation or empty extract).
	FetchSummary(ctx context.Context, label string) (*domain.Summary, error)
	// FetchImageCandidates returns up to limit raw search hits in rank order.
	FetchImageCandidates(ctx context.Context, label string, limit int) ([]domain.ImageCandidate, error)
}

// ErrCircuitOpen is returned while requests are paused after a 429.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// StatusError reports a non-200 upstream response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

type referenceClient struct {
	wikipedia  config.WikipediaConfig
	commons    config.CommonsConfig
	httpClient *resty.Client

	// Circuit breaker for upstream throttling
	circuitBreakerMutex sync.RWMutex
	throttledUntil      time.Time
	circuitBreakerDelay time.Duration
}

func NewReferenceClient(cfg *config.Config) ReferenceClient {
	timeout := time.Duration(max(cfg.Wikipedia.Timeout, cfg.Commons.Timeout)) * time.Second

	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(cfg.HTTP.MaxRetries).
		SetRetryWaitTime(1*time.Second).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("User-Agent", cfg.HTTP.UserAgent).
		SetHeader("Accept", "application/json")

	return &referenceClient{
		wikipedia:           cfg.Wikipedia,
		commons:             cfg.Commons,
		httpClient:          httpClient,
		circuitBreakerDelay: time.Duration(cfg.HTTP.Cooldown) * time.Second,
	}
}

func (c *referenceClient) isCircuitBreakerOpen() bool {
	c.circuitBreakerMutex.RLock()
	now := time.Now()
	wasOpen := now.Before(c.throttledUntil)
	wasTriggered := !c.throttledUntil.IsZero()
	c.circuitBreakerMutex.RUnlock()

	if !wasOpen && wasTriggered {
		c.circuitBreakerMutex.Lock()
		if !c.throttledUntil.IsZero() && now.After(c.throttledUntil) {
			c.throttledUntil = time.Time{}
			log.Infof("✅ Circuit breaker re-enabled - reference requests are allowed again")
		}
		c.circuitBreakerMutex.Unlock()
	}

	return wasOpen
}

func (c *referenceClient) triggerCircuitBreaker() {
	if c.circuitBreakerDelay <= 0 {
		return
	}

	c.circuitBreakerMutex.Lock()
	defer c.circuitBreakerMutex.Unlock()

	c.throttledUntil = time.Now().Add(c.circuitBreakerDelay)
	log.Warnf("🚫 Throttled by upstream, reference requests paused until %v", c.throttledUntil.Format("15:04:05"))
}

// get performs a GET with its own timeout and returns the body of a 200
// response.
func (c *referenceClient) get(ctx context.Context, timeoutSeconds int, url string, params map[string]string) (string, error) {
	if c.isCircuitBreakerOpen() {
		return "", ErrCircuitOpen
	}

	reqCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	req := c.httpClient.R().SetContext(reqCtx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	requestStart := time.Now()
	resp, err := req.Get(url)
	latency := time.Since(requestStart)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		c.triggerCircuitBreaker()
	}
	if resp.StatusCode() != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode()}
	}

	log.Debugf("GET %s answered in %v", url, latency)
	return resp.String(), nil
}
