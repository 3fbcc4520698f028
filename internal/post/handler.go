package post

import (
	"encoding/json"
	"net/http"
	"strconv"

	"social-feed-service/internal/apperr"
	"social-feed-service/internal/shared/httpx"
)

type Handler struct {
	service Service
}

func NewHandler(router *http.ServeMux, service Service) {
	h := &Handler{service: service}
	router.Handle("GET /posts", httpx.Wrap(h.list))
	router.Handle("GET /posts/{postId}", httpx.Wrap(h.get))
	router.Handle("GET /posts/user/{userId}", httpx.Wrap(h.listByUser))
	router.Handle("POST /posts", httpx.Wrap(h.create))
	router.Handle("POST /posts/{postId}/like", httpx.Wrap(h.toggleLike))
	router.Handle("POST /posts/{postId}/comment", httpx.Wrap(h.addComment))
}

func postID(r *http.Request) (uint, error) {
	id64, err := strconv.ParseUint(r.PathValue("postId"), 10, 64)
	if err != nil {
		// a non-numeric id can reference no post
		return 0, apperr.NotFound("post not found")
	}
	return uint(id64), nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) error {
	viewerID, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	posts, err := h.service.ListPosts(r.Context(), viewerID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, posts, http.StatusOK)
	return nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) error {
	viewerID, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	id, err := postID(r)
	if err != nil {
		return err
	}
	found, err := h.service.GetPost(r.Context(), viewerID, id)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, found, http.StatusOK)
	return nil
}

func (h *Handler) listByUser(w http.ResponseWriter, r *http.Request) error {
	viewerID, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	posts, err := h.service.ListUserPosts(r.Context(), viewerID, r.PathValue("userId"))
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, posts, http.StatusOK)
	return nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) error {
	actorID, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	var body CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return apperr.Validation("invalid request body")
	}
	created, err := h.service.CreatePost(r.Context(), actorID, body.Content, body.ImageURL)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, created, http.StatusCreated)
	return nil
}

func (h *Handler) toggleLike(w http.ResponseWriter, r *http.Request) error {
	actorID, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	id, err := postID(r)
	if err != nil {
		return err
	}
	res, err := h.service.ToggleLike(r.Context(), id, actorID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, res, http.StatusOK)
	return nil
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) error {
	actorID, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	id, err := postID(r)
	if err != nil {
		return err
	}
	var body CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return apperr.Validation("invalid request body")
	}
	created, err := h.service.AddComment(r.Context(), id, actorID, body.Content)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, created, http.StatusCreated)
	return nil
}
