package data

import (
	"context"
	"strings"
	"sync"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/types"
)

// MemoryCache implements DataCache using in-memory storage
type MemoryCache struct {
	cache map[string]types.PriceSeries
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: make(map[string]types.PriceSeries),
	}
}

// Get retrieves a copy of a cached series
func (c *MemoryCache) Get(key string) (types.PriceSeries, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	s, exists := c.cache[key]
	if !exists {
		return types.PriceSeries{}, false
	}
	return types.NewPriceSeries(s.Symbol, s.Bars), true
}

// Set stores a copy of a series
func (c *MemoryCache) Set(key string, s types.PriceSeries) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache[key] = types.NewPriceSeries(s.Symbol, s.Bars)
}

// Clear removes all cached data
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string]types.PriceSeries)
}

// Size returns the number of cached entries
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CachedProvider wraps another PriceProvider with caching functionality.
// Failed fetches are never cached.
type CachedProvider struct {
	provider PriceProvider
	cache    DataCache
	log      *logger.Logger
}

// NewCachedProvider creates a new cached data provider
func NewCachedProvider(provider PriceProvider, log *logger.Logger) *CachedProvider {
	return NewCachedProviderWithCache(provider, NewMemoryCache(), log)
}

// NewCachedProviderWithCache creates a new cached data provider with custom cache
func NewCachedProviderWithCache(provider PriceProvider, cache DataCache, log *logger.Logger) *CachedProvider {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedProvider{
		provider: provider,
		cache:    cache,
		log:      log.With(logger.Component("cached_provider")),
	}
}

// GetName returns the name of the underlying provider with cache indication
func (p *CachedProvider) GetName() string {
	return "cached " + p.provider.GetName()
}

// FetchSeries serves repeated (symbol, period) requests from memory
func (p *CachedProvider) FetchSeries(ctx context.Context, symbol, period string) (types.PriceSeries, error) {
	key := cacheKey(symbol, period)
	if cached, ok := p.cache.Get(key); ok {
		p.log.Debug("cache hit", logger.String("key", key))
		return cached, nil
	}

	s, err := p.provider.FetchSeries(ctx, symbol, period)
	if err != nil {
		return types.PriceSeries{}, err
	}

	p.cache.Set(key, s)
	p.log.Debug("cached series", logger.String("key", key), logger.Int("bars", s.Len()))
	return s, nil
}

// GetCache returns the underlying cache for external management
func (p *CachedProvider) GetCache() DataCache {
	return p.cache
}

// ClearCache clears all cached data
func (p *CachedProvider) ClearCache() {
	p.cache.Clear()
}

func cacheKey(symbol, period string) string {
	return strings.ToUpper(strings.TrimSpace(symbol)) + "|" + strings.ToLower(strings.TrimSpace(period))
}
