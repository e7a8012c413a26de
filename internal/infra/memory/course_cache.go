package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"studymatch-service/internal/app"
	"studymatch-service/internal/domain"
)

// CourseCache is the in-process counterpart of the Redis course cache, used
// when no Redis is configured. Only assessment-item lists are cached, with
// TTL; every other lookup passes through to the inner store.
type CourseCache struct {
	app.CourseStore

	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedItems
}

type cachedItems struct {
	items     []domain.AssessmentItem
	expiresAt time.Time
}

func NewCourseCache(inner app.CourseStore, ttl time.Duration) *CourseCache {
	return &CourseCache{
		CourseStore: inner,
		ttl:         ttl,
		clock:       time.Now,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:       make(map[string]cachedItems),
	}
}

func (c *CourseCache) AssessmentItems(ctx context.Context, courseID string) ([]domain.AssessmentItem, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[courseID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.items, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(courseID, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[courseID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.items, nil
		}
		c.mu.RUnlock()

		items, err := c.CourseStore.AssessmentItems(ctx, courseID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[courseID] = cachedItems{
			items:     items,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.AssessmentItem), nil
}

func (c *CourseCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
