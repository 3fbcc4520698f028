package user

import (
	"encoding/json"
	"net/http"

	"social-feed-service/internal/apperr"
	"social-feed-service/internal/shared/httpx"
)

type Handler struct {
	service Service
}

func NewHandler(router *http.ServeMux, service Service) {
	h := &Handler{service: service}
	router.Handle("GET /users/{userId}", httpx.Wrap(h.getProfile))
	router.Handle("GET /users/{userId}/is-following", httpx.Wrap(h.isFollowing))
	router.Handle("PUT /users/{userId}", httpx.Wrap(h.syncProfile))
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) error {
	viewerID, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	profile, err := h.service.GetProfile(r.Context(), viewerID, r.PathValue("userId"))
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"user": profile}, http.StatusOK)
	return nil
}

func (h *Handler) isFollowing(w http.ResponseWriter, r *http.Request) error {
	viewerID, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	isFollowing, err := h.service.IsFollowing(r.Context(), viewerID, r.PathValue("userId"))
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]bool{"isFollowing": isFollowing}, http.StatusOK)
	return nil
}

func (h *Handler) syncProfile(w http.ResponseWriter, r *http.Request) error {
	actorID, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	var body SyncProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := h.service.SyncProfile(r.Context(), actorID, r.PathValue("userId"), body); err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]string{"message": "Profile updated"}, http.StatusOK)
	return nil
}
