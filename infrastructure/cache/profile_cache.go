package cache

import (
	"sync"
	"time"

	"github.com/suraj946/goss-up-server/internal/entity"
)

// ProfileCache is a small in-memory cache of user profile summaries, used to
// avoid re-reading the same users for every conversation-list page. Entries
// expire after a TTL; a background goroutine sweeps expired entries when
// NewProfileCache is given a positive cleanupInterval.
type ProfileCache struct {
	items sync.Map
	stop  chan struct{}
	wg    sync.WaitGroup
}

type profileItem struct {
	summary    entity.UserSummary
	expiration int64 // unix nano; 0 means no expiration
}

func NewProfileCache(cleanupInterval time.Duration) *ProfileCache {
	c := &ProfileCache{
		stop: make(chan struct{}),
	}
	if cleanupInterval > 0 {
		c.wg.Add(1)
		go func() {
			ticker := time.NewTicker(cleanupInterval)
			defer ticker.Stop()
			defer c.wg.Done()
			for {
				select {
				case <-ticker.C:
					c.cleanup()
				case <-c.stop:
					return
				}
			}
		}()
	}
	return c
}

func (c *ProfileCache) Set(userId string, summary entity.UserSummary, ttl time.Duration) {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}
	c.items.Store(userId, profileItem{
		summary:    summary,
		expiration: exp,
	})
}

func (c *ProfileCache) Get(userId string) (entity.UserSummary, bool) {
	v, ok := c.items.Load(userId)
	if !ok {
		return entity.UserSummary{}, false
	}
	it := v.(profileItem)
	if it.expired() {
		c.items.Delete(userId)
		return entity.UserSummary{}, false
	}
	return it.summary, true
}

func (c *ProfileCache) Delete(userId string) {
	c.items.Delete(userId)
}

func (c *ProfileCache) Close() {
	if c.stop == nil {
		return
	}
	close(c.stop)
	c.wg.Wait()
}

func (it profileItem) expired() bool {
	return it.expiration != 0 && time.Now().UnixNano() > it.expiration
}

func (c *ProfileCache) cleanup() {
	c.items.Range(func(k, v any) bool {
		if v.(profileItem).expired() {
			c.items.Delete(k)
		}
		return true
	})
}
