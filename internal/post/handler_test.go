package post

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-feed-service/internal/shared/httpx"
)

// asUser injects the acting principal the way AuthMiddleware would.
func asUser(uid string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(httpx.WithUser(r.Context(), uid)))
	})
}

func newTestRouter(t *testing.T, uid string) (http.Handler, Service) {
	t.Helper()
	svc, _, _ := newTestService(t)
	mux := http.NewServeMux()
	NewHandler(mux, svc)
	return asUser(uid, mux), svc
}

func TestLikeEndpoint(t *testing.T) {
	router, svc := newTestRouter(t, "bob")
	postID := createPost(t, svc, "alice")

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/posts/%d/like", postID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body ToggleLikeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.IsLiked)
	assert.EqualValues(t, 1, body.LikesCount)
}

func TestLikeEndpointUnknownPost(t *testing.T) {
	router, _ := newTestRouter(t, "bob")

	for _, path := range []string{"/posts/999/like", "/posts/abc/like"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestGetPostEndpoint(t *testing.T) {
	router, svc := newTestRouter(t, "bob")
	postID := createPost(t, svc, "alice")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(
		http.MethodGet, fmt.Sprintf("/posts/%d", postID), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body PostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, postID, body.ID)
	assert.Equal(t, "alice", body.Author.ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts/999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommentEndpointValidation(t *testing.T) {
	router, svc := newTestRouter(t, "bob")
	createPost(t, svc, "alice")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPost, "/posts/1/comment", strings.NewReader(`{"content":""}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPost, "/posts/1/comment", strings.NewReader(`{"content":"first!"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body CommentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "first!", body.Content)
	assert.Equal(t, "bob", body.Author.ID)
}

func TestCreatePostEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, "alice")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPost, "/posts", strings.NewReader(`{"content":"hello","imageUrl":"http://img/1.png"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body PostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "hello", body.Content)
	assert.False(t, body.IsLiked)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var posts []PostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	assert.Len(t, posts, 1)
}
