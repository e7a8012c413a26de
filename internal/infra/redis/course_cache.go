package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"studymatch-service/internal/app"
	"studymatch-service/internal/domain"
)

// CourseCache decorates a CourseStore with a Redis cache for assessment-item
// lists, stored as JSON under course:{id}:items with a TTL. Item lists are
// slow-changing course content; enrollments, submissions and profiles are
// the live inputs of a match and always pass through to the inner store.
type CourseCache struct {
	app.CourseStore

	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCourseCache(client *redis.Client, inner app.CourseStore, ttl time.Duration) *CourseCache {
	return &CourseCache{
		CourseStore: inner,
		client:      client,
		ttl:         ttl,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CourseCache) AssessmentItems(ctx context.Context, courseID string) ([]domain.AssessmentItem, error) {
	key := c.itemsKey(courseID)

	if items, ok := c.cachedItems(ctx, key); ok {
		return items, nil
	}

	result, err, _ := c.sf.Do(courseID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if items, ok := c.cachedItems(ctx, key); ok {
			return items, nil
		}

		items, err := c.CourseStore.AssessmentItems(ctx, courseID)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(items); err == nil {
			// best-effort write; a miss next time just reloads
			_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.AssessmentItem), nil
}

func (c *CourseCache) cachedItems(ctx context.Context, key string) ([]domain.AssessmentItem, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var items []domain.AssessmentItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (c *CourseCache) itemsKey(courseID string) string {
	return "course:" + courseID + ":items"
}

func (c *CourseCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
