package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"certificate-service-go/internal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

var (
	// ErrNotFound ключа нет в кэше
	ErrNotFound = errors.New("cache miss: key not found")
	// ErrExpired ключ найден, но срок жизни истек
	ErrExpired = errors.New("cache miss: key expired")
)

type item struct {
	value      []byte
	expiration time.Time
}

// Cache хранит готовые файлы сертификатов с ограниченным временем жизни
type Cache struct {
	mu      sync.RWMutex
	items   map[string]item
	bytes   int
	ttl     time.Duration
	metrics Metrics
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewCache создает кэш с метриками из глобального реестра
func NewCache(ttl time.Duration) *Cache {
	return NewCacheWithMetrics(ttl, defaultMetrics)
}

// NewCacheWithMetrics создает кэш с заданными метриками и запускает фоновую очистку
func NewCacheWithMetrics(ttl time.Duration, m Metrics) *Cache {
	c := &Cache{
		items:   make(map[string]item),
		ttl:     ttl,
		metrics: m,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if ttl > 0 {
		go c.cleanupLoop()
	}
	return c
}

// Set сохраняет значение. Срок жизни отсчитывается от момента записи.
func (c *Cache) Set(ctx context.Context, key string, value []byte) {
	_, span := tracing.StartSpan(ctx, "Cache.Set")
	defer span.End()
	span.SetAttributes(attribute.String("cache.key", key), attribute.Int("cache.value_size", len(value)))

	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.items[key]; ok {
		c.bytes -= len(old.value)
	}
	c.items[key] = item{value: value, expiration: c.now().Add(c.ttl)}
	c.bytes += len(value)
	c.updateGauges()
}

// Get возвращает значение или ErrNotFound / ErrExpired
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := tracing.StartSpan(ctx, "Cache.Get")
	defer span.End()
	span.SetAttributes(attribute.String("cache.key", key))

	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		c.metrics.Misses.Inc()
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return nil, ErrNotFound
	}
	if c.now().After(it.expiration) {
		c.Delete(ctx, key)
		c.metrics.Misses.Inc()
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return nil, ErrExpired
	}

	c.metrics.Hits.Inc()
	span.SetAttributes(attribute.Bool("cache.hit", true))
	return it.value, nil
}

// Delete удаляет значение из кэша
func (c *Cache) Delete(ctx context.Context, key string) {
	_, span := tracing.StartSpan(ctx, "Cache.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("cache.key", key))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteLocked(key)
	c.updateGauges()
}

// Clear очищает весь кэш
func (c *Cache) Clear(ctx context.Context) {
	_, span := tracing.StartSpan(ctx, "Cache.Clear")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]item)
	c.bytes = 0
	c.updateGauges()
}

// Len количество записей, включая еще не вычищенные просроченные
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close останавливает фоновую очистку. Повторный вызов безопасен.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *Cache) removeExpired() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, it := range c.items {
		if now.After(it.expiration) {
			c.deleteLocked(key)
			removed++
		}
	}
	if removed > 0 {
		c.updateGauges()
	}
	return removed
}

func (c *Cache) deleteLocked(key string) {
	if it, ok := c.items[key]; ok {
		c.bytes -= len(it.value)
		delete(c.items, key)
	}
}

func (c *Cache) updateGauges() {
	c.metrics.Items.Set(float64(len(c.items)))
	c.metrics.SizeBytes.Set(float64(c.bytes))
}

// Fingerprint строит ключ кэша из частей запроса.
// Каждая часть предваряется длиной, поэтому ("ab","c") и ("a","bc") дают разные ключи.
func Fingerprint(parts ...[]byte) string {
	h := sha256.New()
	var size [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(size[:], uint64(len(p)))
		h.Write(size[:])
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
