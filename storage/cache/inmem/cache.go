// Package inmemcache is the zero-dependency cache used in development and
// tests. One Cache instance backs the session store and the reference-data
// caches behind the same mutex.
package inmemcache

import (
	"context"
	"sync"
	"time"

	"github.com/adaptivin/adaptivin-admin/core/class"
	"github.com/adaptivin/adaptivin-admin/core/school"
	"github.com/adaptivin/adaptivin-admin/core/session"
)

var NowFunc = time.Now // mockable

type sessionEntry struct {
	sess      session.Session
	expiresAt time.Time
}

type Cache struct {
	mutex    sync.RWMutex
	sessions map[string]sessionEntry
	schools  []school.School
	classes  []class.Class
}

func New() *Cache {
	return &Cache{sessions: make(map[string]sessionEntry)}
}

func (c *Cache) GetSession(ctx context.Context, id string) (session.Session, error) {
	c.mutex.RLock()
	entry, ok := c.sessions[id]
	c.mutex.RUnlock()

	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	if NowFunc().After(entry.expiresAt) {
		c.mutex.Lock()
		delete(c.sessions, id)
		c.mutex.Unlock()
		return session.Session{}, session.ErrNotFound
	}
	return entry.sess, nil
}

func (c *Cache) PutSession(ctx context.Context, sess session.Session, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.sessions[sess.ID] = sessionEntry{sess: sess, expiresAt: NowFunc().Add(ttl)}
	return nil
}

func (c *Cache) DeleteSession(ctx context.Context, id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.sessions[id]; !ok {
		return session.ErrNotFound
	}
	delete(c.sessions, id)
	return nil
}

func (c *Cache) ReplaceSchools(ctx context.Context, schools []school.School) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.schools = append([]school.School(nil), schools...)
	return nil
}

func (c *Cache) Schools(ctx context.Context) ([]school.School, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return append([]school.School(nil), c.schools...), nil
}

func (c *Cache) ReplaceClasses(ctx context.Context, classes []class.Class) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.classes = append([]class.Class(nil), classes...)
	return nil
}

func (c *Cache) Classes(ctx context.Context) ([]class.Class, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return append([]class.Class(nil), c.classes...), nil
}
