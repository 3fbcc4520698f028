package follow

import (
	"net/http"

	"social-feed-service/internal/shared/httpx"
)

type Handler struct {
	service Service
}

func NewHandler(router *http.ServeMux, service Service) {
	h := &Handler{service: service}
	router.Handle("POST /users/{userId}/follow", httpx.Wrap(h.toggle))
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) error {
	actorID, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	following, err := h.service.Toggle(r.Context(), actorID, r.PathValue("userId"))
	if err != nil {
		return err
	}
	msg := "Unfollowed successfully"
	if following {
		msg = "Followed successfully"
	}
	httpx.WriteJSON(w, map[string]any{
		"message":     msg,
		"isFollowing": following,
	}, http.StatusOK)
	return nil
}
