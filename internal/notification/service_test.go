package notification

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-feed-service/internal/apperr"
	"social-feed-service/internal/user"
)

func newTestService(t *testing.T) (Service, *MemoryRepository, *MemoryCache) {
	t.Helper()
	users := user.NewMemoryRepository()
	for _, id := range []string{"alice", "bob"} {
		require.NoError(t, users.Upsert(context.Background(), &user.User{ID: id, Username: id}))
	}
	repo := NewMemoryRepository()
	cache := NewMemoryCache()
	posts := MemoryPostSource{1: "first post", 2: "second post"}
	return NewService(repo, users, posts, cache), repo, cache
}

func TestListNewestFirstCapped(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 60; i++ {
		err := svc.Create(ctx, fmt.Sprintf("ev-%d", i), KindLike, "alice", "bob", 1, base.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}

	items, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 50)

	// newest first, sender and post populated
	assert.Equal(t, "ev-59", items[0].ID)
	assert.Equal(t, "bob", items[0].Sender.ID)
	require.NotNil(t, items[0].Post)
	assert.EqualValues(t, 1, items[0].Post.ID)
	assert.Equal(t, "first post", items[0].Post.Content)
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].CreatedAt.After(items[i-1].CreatedAt))
	}
}

func TestListFollowNotificationHasNoPost(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "ev-1", KindFollow, "alice", "bob", 0, time.Now().UTC()))

	items, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Post)
}

func TestCreateIdempotentOnEventID(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, svc.Create(ctx, "ev-1", KindFollow, "alice", "bob", 0, now))
	require.NoError(t, svc.Create(ctx, "ev-1", KindFollow, "alice", "bob", 0, now))

	items, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestMarkAllReadIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Create(ctx, fmt.Sprintf("ev-%d", i), KindLike, "alice", "bob", 1, now))
	}

	count, err := svc.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	require.NoError(t, svc.MarkAllRead(ctx, "alice"))
	count, err = svc.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, count)

	// second call is a no-op
	require.NoError(t, svc.MarkAllRead(ctx, "alice"))
	count, err = svc.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkReadValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	err := svc.MarkRead(ctx, "alice", nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = svc.MarkRead(ctx, "alice", []string{"ev-1", ""})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestMarkReadOnlyOwnRows(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, svc.Create(ctx, "ev-alice", KindLike, "alice", "bob", 1, now))
	require.NoError(t, svc.Create(ctx, "ev-bob", KindLike, "bob", "alice", 2, now))

	// bob passing alice's notification id must not touch it
	require.NoError(t, svc.MarkRead(ctx, "bob", []string{"ev-alice", "ev-bob"}))

	count, err := svc.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = svc.UnreadCount(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUnreadCountUsesCache(t *testing.T) {
	svc, _, cache := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, svc.Create(ctx, "ev-1", KindComment, "alice", "bob", 1, now))

	count, err := svc.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	cached, ok := cache.Get(ctx, "alice")
	require.True(t, ok)
	assert.EqualValues(t, 1, cached)

	// a new notification invalidates the cached count
	require.NoError(t, svc.Create(ctx, "ev-2", KindComment, "alice", "bob", 1, now))
	_, ok = cache.Get(ctx, "alice")
	assert.False(t, ok)

	count, err = svc.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
