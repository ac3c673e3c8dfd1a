package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/merchantkit/payment-stripe/internal/infrastructure/observability"
	"github.com/rs/zerolog"
)

// Cache is a byte cache keyed by store scope. Entries are only removed by an
// explicit Clear; setting writes deliberately do not invalidate.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
}

// Service resolves payment settings per store scope through a read-through
// cache. Writes go straight to the repository and leave the cache stale until
// the caller issues one ClearCache after its batch of field writes; the
// payment path only reads, so no locking is needed.
type Service struct {
	repo    Repository
	cache   Cache
	metrics *observability.Metrics
	logger  zerolog.Logger
}

func NewService(repo Repository, cache Cache, metrics *observability.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

func cacheKey(storeID int64) string {
	return fmt.Sprintf("settings:%d", storeID)
}

// Load returns the settings resolved for the given store scope.
func (s *Service) Load(ctx context.Context, storeID int64) (*PaymentSettings, error) {
	key := cacheKey(storeID)

	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var values map[string]string
		if err := json.Unmarshal(raw, &values); err == nil {
			if s.metrics != nil {
				s.metrics.SettingsCacheHits.WithLabelValues("hit").Inc()
			}
			return FromValues(values)
		}
		s.logger.Warn().Str("key", key).Msg("corrupt settings cache entry, reloading")
	}
	if s.metrics != nil {
		s.metrics.SettingsCacheHits.WithLabelValues("miss").Inc()
	}

	values, err := s.repo.LoadAll(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("load settings for store %d: %w", storeID, err)
	}

	if raw, err := json.Marshal(values); err == nil {
		if err := s.cache.Set(ctx, key, raw); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to cache settings")
		}
	}

	return FromValues(values)
}

// Overrides reports which fields carry a store-scoped row. Always resolved
// against the repository, never the cache: the admin view must show the
// current override state, not a snapshot.
func (s *Service) Overrides(ctx context.Context, storeID int64) (*Overrides, error) {
	if storeID == GlobalScope {
		return &Overrides{}, nil
	}

	o := &Overrides{}
	checks := []struct {
		name string
		dst  *bool
	}{
		{NameTransactMode, &o.TransactMode},
		{NameAdditionalFee, &o.AdditionalFee},
		{NameAdditionalFeePercentage, &o.AdditionalFeePercentage},
		{NameAPIKey, &o.APIKey},
	}
	for _, c := range checks {
		exists, err := s.repo.Exists(ctx, c.name, storeID)
		if err != nil {
			return nil, fmt.Errorf("check override %s: %w", c.name, err)
		}
		*c.dst = exists
	}
	return o, nil
}

// SaveField persists a single setting with per-store override semantics:
// for the global scope the value is always written; for a store scope the
// row is written when overridden and removed otherwise, so the store falls
// back to the global value. The cache is NOT cleared here.
func (s *Service) SaveField(ctx context.Context, name, value string, overridden bool, storeID int64) error {
	if storeID == GlobalScope || overridden {
		return s.repo.Upsert(ctx, name, value, storeID)
	}
	return s.repo.Delete(ctx, name, storeID)
}

// Save writes every field of the settings with the given override flags,
// without touching the cache. Callers must follow the batch with one
// ClearCache.
func (s *Service) Save(ctx context.Context, settings *PaymentSettings, overrides *Overrides, storeID int64) error {
	values := settings.Values()
	for _, name := range AllNames {
		if err := s.SaveField(ctx, name, values[name], overrides.FieldOverridden(name), storeID); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
	}
	return nil
}

// ClearCache drops every cached settings snapshot.
func (s *Service) ClearCache(ctx context.Context) error {
	if s.metrics != nil {
		s.metrics.SettingsCacheClears.Inc()
	}
	return s.cache.Clear(ctx)
}

// DeleteAll removes the plugin's settings for all scopes and clears the
// cache; used on uninstall.
func (s *Service) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteByPrefix(ctx, prefix); err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	return s.ClearCache(ctx)
}
