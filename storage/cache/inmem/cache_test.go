package inmemcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/adaptivin/adaptivin-admin/core/school"
	"github.com/adaptivin/adaptivin-admin/core/session"
)

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	cache := New()
	sess := session.Session{ID: "sess-1", Token: "token-1"}

	_, err := cache.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, session.ErrNotFound)

	assert.NoError(t, cache.PutSession(ctx, sess, time.Hour))
	got, err := cache.GetSession(ctx, "sess-1")
	assert.NoError(t, err)
	assert.Equal(t, sess, got)

	assert.NoError(t, cache.DeleteSession(ctx, "sess-1"))
	assert.ErrorIs(t, cache.DeleteSession(ctx, "sess-1"), session.ErrNotFound)
}

func TestSessionStore_ttl(t *testing.T) {
	ctx := context.Background()
	cache := New()

	now := time.Now()
	NowFunc = func() time.Time { return now }
	defer func() { NowFunc = time.Now }()

	assert.NoError(t, cache.PutSession(ctx, session.Session{ID: "sess-1"}, time.Hour))

	now = now.Add(30 * time.Minute)
	_, err := cache.GetSession(ctx, "sess-1")
	assert.NoError(t, err)

	now = now.Add(31 * time.Minute)
	_, err = cache.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestReferenceData(t *testing.T) {
	ctx := context.Background()
	cache := New()

	schools, err := cache.Schools(ctx)
	assert.NoError(t, err)
	assert.Empty(t, schools)

	put := []school.School{{ID: 1, Name: "SDN Melati 01"}}
	assert.NoError(t, cache.ReplaceSchools(ctx, put))

	schools, err = cache.Schools(ctx)
	assert.NoError(t, err)
	assert.Equal(t, put, schools)

	// the cache holds its own copy
	put[0].Name = "mutated"
	schools, _ = cache.Schools(ctx)
	assert.Equal(t, "SDN Melati 01", schools[0].Name)
}
