// Package enrichment resolves fresh author records for the profile subsystem.
// It reads through a JSON cache into the persistent author store so repeated
// profile builds for the same reviewer do not hammer the database.
package enrichment

import (
	"context"
	"time"

	"github.com/scholarfinder/engine/internal/domain/author"
	"github.com/scholarfinder/engine/internal/infrastructure/monitoring/logging"
	"github.com/scholarfinder/engine/pkg/errors"
	"github.com/scholarfinder/engine/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// AuthorStore is the persistence port the enricher loads from on a cache
// miss. The PostgreSQL author repository satisfies it.
type AuthorStore interface {
	FindByID(ctx context.Context, id common.ID) (*author.Author, error)
}

// Cache is the subset of the object cache the enricher needs.
type Cache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
	Delete(ctx context.Context, keys ...string) error
}

// MetricsCollector counts cache effectiveness for the enrichment path.
type MetricsCollector interface {
	IncCacheHit()
	IncCacheMiss()
}

type noopMetrics struct{}

func (noopMetrics) IncCacheHit()  {}
func (noopMetrics) IncCacheMiss() {}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

const defaultTTL = 6 * time.Hour

// Service is the cached author enricher. It implements the profile
// subsystem's Enricher port.
type Service struct {
	store   AuthorStore
	cache   Cache
	ttl     time.Duration
	logger  logging.Logger
	metrics MetricsCollector
}

// NewService wires the enricher. cache may be nil, in which case every
// lookup goes straight to the store. A zero ttl falls back to six hours.
func NewService(store AuthorStore, cache Cache, ttl time.Duration, logger logging.Logger, metrics MetricsCollector) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{
		store:   store,
		cache:   cache,
		ttl:     ttl,
		logger:  logger.Named("enrichment"),
		metrics: metrics,
	}
}

func cacheKey(id common.ID) string {
	return "author:" + id.String()
}

// GetAuthorProfile returns the current record for one author, served from
// cache when possible. A store miss propagates as CodeAuthorNotFound so
// callers can distinguish unknown reviewers from infrastructure trouble.
func (s *Service) GetAuthorProfile(ctx context.Context, id common.ID) (*author.Author, error) {
	if id.IsZero() {
		return nil, errors.New(errors.CodeInvalidParam, "author id is required")
	}
	if s.cache == nil {
		return s.store.FindByID(ctx, id)
	}

	var rec author.Author
	loaded := false
	err := s.cache.GetOrSet(ctx, cacheKey(id), &rec, s.ttl, func(ctx context.Context) (interface{}, error) {
		loaded = true
		found, err := s.store.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return found, nil
	})
	if err != nil {
		if loaded {
			// The loader ran, so the error comes from the store itself.
			s.metrics.IncCacheMiss()
			return nil, err
		}
		s.logger.Warn("cache lookup failed, reading store directly",
			logging.String("author_id", id.String()), logging.Err(err))
		return s.store.FindByID(ctx, id)
	}
	if loaded {
		s.metrics.IncCacheMiss()
	} else {
		s.metrics.IncCacheHit()
	}
	return &rec, nil
}

// Invalidate drops the cached record for one author, forcing the next
// lookup to reload from the store. Used after writes.
func (s *Service) Invalidate(ctx context.Context, id common.ID) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, cacheKey(id))
}
