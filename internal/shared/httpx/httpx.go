package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"social-feed-service/internal/apperr"
	"social-feed-service/internal/shared/jwt"
)

type HandlerFunc func(http.ResponseWriter, *http.Request) error

// Wrap turns an error-returning handler into an http.Handler, mapping the
// error taxonomy to status codes so handlers never write error bodies
// themselves.
func Wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			WriteError(w, err)
		}
	})
}

func WriteJSON(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, map[string]any{
		"error": map[string]string{
			"kind":    string(apperr.KindOf(err)),
			"message": apperr.MessageOf(err),
		},
	}, apperr.HTTPStatus(err))
}

type ctxKey string

const userKey ctxKey = "user_id"

var ErrNoUser = errors.New("no user in context")

func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// AuthMiddleware resolves the Bearer token to a user id and stores it in the
// request context. The engine trusts this id; it performs no credential
// checks of its own.
func AuthMiddleware(secret []byte, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := BearerToken(r)
		if tok == "" {
			WriteJSON(w, map[string]string{"error": "missing token"}, http.StatusUnauthorized)
			return
		}
		uid, err := jwt.Parse(tok, secret)
		if err != nil || uid == "" {
			WriteJSON(w, map[string]string{"error": "invalid token"}, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), uid)))
	})
}

func WithUser(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userKey, uid)
}

func UserFromCtx(r *http.Request) (string, error) {
	uid, _ := r.Context().Value(userKey).(string)
	if uid == "" {
		return "", ErrNoUser
	}
	return uid, nil
}
