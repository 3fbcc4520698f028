package notification

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
	router.Handle("GET /notifications", httpx.Wrap(h.list))
	router.Handle("PUT /notifications/read", httpx.Wrap(h.markRead))
	router.Handle("PUT /notifications/read-all", httpx.Wrap(h.markAllRead))
	router.Handle("GET /notifications/count", httpx.Wrap(h.unreadCount))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	items, err := h.service.List(r.Context(), uid)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, items, http.StatusOK)
	return nil
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	var body MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return apperr.Validation("invalid notification IDs")
	}
	if err := h.service.MarkRead(r.Context(), uid, body.NotificationIDs); err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]string{"message": "Notifications marked as read"}, http.StatusOK)
	return nil
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	if err := h.service.MarkAllRead(r.Context(), uid); err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]string{"message": "All notifications marked as read"}, http.StatusOK)
	return nil
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	count, err := h.service.UnreadCount(r.Context(), uid)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]int64{"count": count}, http.StatusOK)
	return nil
}
