// Package rediscache backs the session store and reference-data caches with
// redis, so sessions survive app restarts and multiple app instances see the
// same state. Values are stored as JSON.
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/adaptivin/adaptivin-admin/core"
	"github.com/adaptivin/adaptivin-admin/core/class"
	"github.com/adaptivin/adaptivin-admin/core/school"
	"github.com/adaptivin/adaptivin-admin/core/session"
)

const (
	sessionKeyPrefix = "session:"
	schoolsKey       = "ref:schools"
	classesKey       = "ref:classes"

	// reference data is refreshed by the pages anyway; the TTL only caps
	// staleness after the last replace
	refTTL = 24 * time.Hour
)

type Cache struct {
	rdb *redis.Client
}

func New(conf *core.Config) *Cache {
	return &Cache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		}),
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	return errors.Wrap(c.rdb.Ping(ctx).Err(), "pinging redis")
}

func (c *Cache) Close() error { return c.rdb.Close() }

func (c *Cache) GetSession(ctx context.Context, id string) (session.Session, error) {
	buf, err := c.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return session.Session{}, session.ErrNotFound
	}
	if err != nil {
		return session.Session{}, errors.Wrap(err, "getting session")
	}

	var sess session.Session
	if err = json.Unmarshal(buf, &sess); err != nil {
		return session.Session{}, errors.Wrap(err, "decoding session")
	}
	return sess, nil
}

func (c *Cache) PutSession(ctx context.Context, sess session.Session, ttl time.Duration) error {
	buf, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	return errors.Wrap(c.rdb.Set(ctx, sessionKeyPrefix+sess.ID, buf, ttl).Err(), "putting session")
}

func (c *Cache) DeleteSession(ctx context.Context, id string) error {
	deleted, err := c.rdb.Del(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return errors.Wrap(err, "deleting session")
	}
	if deleted == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (c *Cache) ReplaceSchools(ctx context.Context, schools []school.School) error {
	return c.replace(ctx, schoolsKey, schools)
}

func (c *Cache) Schools(ctx context.Context) ([]school.School, error) {
	schools := []school.School{}
	if err := c.fetch(ctx, schoolsKey, &schools); err != nil {
		return nil, err
	}
	return schools, nil
}

func (c *Cache) ReplaceClasses(ctx context.Context, classes []class.Class) error {
	return c.replace(ctx, classesKey, classes)
}

func (c *Cache) Classes(ctx context.Context) ([]class.Class, error) {
	classes := []class.Class{}
	if err := c.fetch(ctx, classesKey, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (c *Cache) replace(ctx context.Context, key string, val interface{}) error {
	buf, err := json.Marshal(val)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	return errors.Wrapf(c.rdb.Set(ctx, key, buf, refTTL).Err(), "putting %s", key)
}

// fetch decodes key into out; a missing key leaves out untouched (empty cache,
// not an error).
func (c *Cache) fetch(ctx context.Context, key string, out interface{}) error {
	buf, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "getting %s", key)
	}
	return errors.Wrapf(json.Unmarshal(buf, out), "decoding %s", key)
}
