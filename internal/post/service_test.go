package post

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-feed-service/internal/apperr"
	"social-feed-service/internal/fanout"
	"social-feed-service/internal/notification"
	"social-feed-service/internal/user"
)

type captureEmitter struct {
	mu     sync.Mutex
	events []fanout.Event
}

func (c *captureEmitter) Emit(ev fanout.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *captureEmitter) all() []fanout.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]fanout.Event(nil), c.events...)
}

func newTestService(t *testing.T) (Service, *MemoryRepository, *captureEmitter) {
	t.Helper()
	users := user.NewMemoryRepository()
	for _, id := range []string{"alice", "bob", "carol"} {
		require.NoError(t, users.Upsert(context.Background(), &user.User{ID: id, Username: id}))
	}
	repo := NewMemoryRepository()
	emitter := &captureEmitter{}
	return NewService(repo, users, emitter), repo, emitter
}

func createPost(t *testing.T, svc Service, author string) uint {
	t.Helper()
	created, err := svc.CreatePost(context.Background(), author, "hello world", "")
	require.NoError(t, err)
	return created.ID
}

func TestToggleLikeDoubleToggle(t *testing.T) {
	svc, _, emitter := newTestService(t)
	ctx := context.Background()
	postID := createPost(t, svc, "alice")

	res, err := svc.ToggleLike(ctx, postID, "bob")
	require.NoError(t, err)
	assert.True(t, res.IsLiked)
	assert.EqualValues(t, 1, res.LikesCount)

	events := emitter.all()
	require.Len(t, events, 1)
	assert.Equal(t, notification.KindLike, events[0].Kind)
	assert.Equal(t, "alice", events[0].RecipientID)
	assert.Equal(t, "bob", events[0].SenderID)
	assert.Equal(t, postID, events[0].PostID)

	res, err = svc.ToggleLike(ctx, postID, "bob")
	require.NoError(t, err)
	assert.False(t, res.IsLiked)
	assert.EqualValues(t, 0, res.LikesCount)

	// the unlike direction must not notify
	assert.Len(t, emitter.all(), 1)
}

func TestToggleLikeRelikeNotifiesAgain(t *testing.T) {
	svc, _, emitter := newTestService(t)
	ctx := context.Background()
	postID := createPost(t, svc, "alice")

	for _, liked := range []bool{true, false, true} {
		res, err := svc.ToggleLike(ctx, postID, "bob")
		require.NoError(t, err)
		assert.Equal(t, liked, res.IsLiked)
	}

	// off->on happened twice, so exactly two notifications
	assert.Len(t, emitter.all(), 2)
}

func TestToggleLikeOwnPostNoNotification(t *testing.T) {
	svc, _, emitter := newTestService(t)
	ctx := context.Background()
	postID := createPost(t, svc, "alice")

	res, err := svc.ToggleLike(ctx, postID, "alice")
	require.NoError(t, err)
	assert.True(t, res.IsLiked)
	assert.EqualValues(t, 1, res.LikesCount)
	assert.Empty(t, emitter.all())
}

func TestToggleLikeMissingPost(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ToggleLike(context.Background(), 999, "bob")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestToggleLikeConcurrentDistinctUsers(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	postID := createPost(t, svc, "alice")

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := svc.ToggleLike(ctx, postID, fmt.Sprintf("liker-%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	p, err := repo.Get(ctx, postID)
	require.NoError(t, err)
	assert.EqualValues(t, n, p.LikesCount)

	ids := make([]uint, 0, 1)
	ids = append(ids, postID)
	for i := 0; i < n; i++ {
		liked, err := repo.LikedSet(ctx, fmt.Sprintf("liker-%d", i), ids)
		require.NoError(t, err)
		assert.True(t, liked[postID])
	}
}

func TestAddCommentConcurrent(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	postID := createPost(t, svc, "alice")

	const c = 40
	var wg sync.WaitGroup
	wg.Add(c)
	for i := 0; i < c; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := svc.AddComment(ctx, postID, "bob", fmt.Sprintf("comment %d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	p, err := repo.Get(ctx, postID)
	require.NoError(t, err)
	assert.EqualValues(t, c, p.CommentsCount)

	comments, err := repo.CommentsFor(ctx, []uint{postID})
	require.NoError(t, err)
	assert.Len(t, comments[postID], c)
}

func TestAddCommentNotification(t *testing.T) {
	svc, _, emitter := newTestService(t)
	ctx := context.Background()
	postID := createPost(t, svc, "alice")

	_, err := svc.AddComment(ctx, postID, "bob", "nice post")
	require.NoError(t, err)
	events := emitter.all()
	require.Len(t, events, 1)
	assert.Equal(t, notification.KindComment, events[0].Kind)
	assert.Equal(t, "alice", events[0].RecipientID)

	// self-comment must not notify
	_, err = svc.AddComment(ctx, postID, "alice", "thanks")
	require.NoError(t, err)
	assert.Len(t, emitter.all(), 1)
}

func TestAddCommentValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	postID := createPost(t, svc, "alice")

	_, err := svc.AddComment(ctx, postID, "bob", "   ")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.AddComment(ctx, postID, "bob", strings.Repeat("x", MaxContentLen+1))
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.AddComment(ctx, 999, "bob", "hello")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreatePostValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, "alice", "", "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	created, err := svc.CreatePost(ctx, "alice", "fresh post", "http://img.example/1.png")
	require.NoError(t, err)
	assert.False(t, created.IsLiked)
	assert.Equal(t, "alice", created.Author.ID)
	assert.Equal(t, "http://img.example/1.png", created.ImageURL)
}

func TestListPostsPerViewerIsLiked(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	p1 := createPost(t, svc, "alice")
	p2 := createPost(t, svc, "bob")

	_, err := svc.ToggleLike(ctx, p1, "carol")
	require.NoError(t, err)

	posts, err := svc.ListPosts(ctx, "carol")
	require.NoError(t, err)
	require.Len(t, posts, 2)

	byID := map[uint]PostResponse{}
	for _, p := range posts {
		byID[p.ID] = p
	}
	assert.True(t, byID[p1].IsLiked)
	assert.False(t, byID[p2].IsLiked)

	// a different viewer sees their own flags
	posts, err = svc.ListPosts(ctx, "bob")
	require.NoError(t, err)
	for _, p := range posts {
		assert.False(t, p.IsLiked)
	}
}

func TestGetPostProjectsForViewer(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	postID := createPost(t, svc, "alice")

	_, err := svc.ToggleLike(ctx, postID, "carol")
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, postID, "bob", "nice post")
	require.NoError(t, err)

	found, err := svc.GetPost(ctx, "carol", postID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Author.ID)
	assert.True(t, found.IsLiked)
	require.Len(t, found.Comments, 1)
	assert.Equal(t, "bob", found.Comments[0].Author.ID)

	// a viewer who never liked it sees their own flag
	found, err = svc.GetPost(ctx, "bob", postID)
	require.NoError(t, err)
	assert.False(t, found.IsLiked)
}

func TestGetPostMissing(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetPost(context.Background(), "bob", 999)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListUserPostsFiltersByAuthor(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	createPost(t, svc, "alice")
	createPost(t, svc, "bob")

	posts, err := svc.ListUserPosts(ctx, "carol", "alice")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "alice", posts[0].Author.ID)
}
