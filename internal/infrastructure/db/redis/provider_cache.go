package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/medisched/user-service/internal/core/domain"
	"github.com/medisched/user-service/internal/core/ports"
)

const providerKeyPrefix = "providers:"

// ProviderCache decorates a ports.UserRepository and caches FindByService
// results in Redis. Cache failures are logged and the directory is used.
// Key format: providers:<MEDICAL_SERVICE>
type ProviderCache struct {
	ports.UserRepository
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewProviderCache wraps repo. A non-positive ttl returns repo unchanged.
func NewProviderCache(repo ports.UserRepository, client *redis.Client, ttl time.Duration, logger zerolog.Logger) ports.UserRepository {
	if ttl <= 0 || client == nil {
		return repo
	}
	return &ProviderCache{
		UserRepository: repo,
		client:         client,
		ttl:            ttl,
		logger:         logger.With().Str("component", "provider_cache").Logger(),
	}
}

func (c *ProviderCache) FindByService(ctx context.Context, service domain.MedicalService) ([]ports.ProviderSummary, error) {
	key := providerKey(service)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []ports.ProviderSummary
		jerr := json.Unmarshal(raw, &cached)
		if jerr == nil {
			return cached, nil
		}
		c.logger.Warn().Err(jerr).Str("key", key).Msg("discarding corrupt cache entry")
	case !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Str("key", key).Msg("provider cache read failed")
	}

	providers, err := c.UserRepository.FindByService(ctx, service)
	if err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		return providers, nil
	}

	payload, err := json.Marshal(providers)
	if err != nil {
		return providers, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("provider cache write failed")
	}
	return providers, nil
}

// Save persists through the directory and drops cached lists. An insert
// drops the lists of the services the user offers; a replace drops every
// list, since services the user no longer offers are unknown here.
func (c *ProviderCache) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	replace := user.ID != 0
	saved, err := c.UserRepository.Save(ctx, user)
	if err != nil {
		return nil, err
	}

	services := saved.Services
	if replace {
		services = domain.MedicalServices()
	}
	if len(services) == 0 {
		return saved, nil
	}

	keys := make([]string, 0, len(services))
	for _, s := range services {
		keys = append(keys, providerKey(s))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Strs("keys", keys).Msg("provider cache invalidation failed")
	}
	return saved, nil
}

func providerKey(service domain.MedicalService) string {
	return providerKeyPrefix + string(service)
}
