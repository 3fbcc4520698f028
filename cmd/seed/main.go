package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"social-feed-service/internal/shared/jwt"
)

// Seeds demo data through the public API: a handful of users, posts and
// cross-engagement (likes, comments, follows). Tokens are signed locally
// with the same JWT secret the service verifies against.

var (
	baseURL = envOr("SEED_BASE_URL", "http://localhost:8080")
	secret  = []byte(envOr("JWT_SECRET", "replace-this-with-a-strong-secret"))
)

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func main() {
	gofakeit.Seed(time.Now().UnixNano())

	const nUsers = 5
	tokens := make(map[string]string, nUsers)
	ids := make([]string, 0, nUsers)

	for i := 0; i < nUsers; i++ {
		uid := fmt.Sprintf("user-%d", i+1)
		tok, err := jwt.Sign(uid, secret, time.Hour)
		if err != nil {
			log.Fatalf("sign token: %v", err)
		}
		tokens[uid] = tok
		ids = append(ids, uid)

		call(tok, http.MethodPut, "/users/"+uid, map[string]string{
			"username": gofakeit.Username(),
			"fullName": gofakeit.Name(),
			"bio":      gofakeit.Sentence(8),
		})
	}

	// each user posts a couple of times
	var postIDs []float64
	for _, uid := range ids {
		for i := 0; i < 2; i++ {
			resp := call(tokens[uid], http.MethodPost, "/posts", map[string]string{
				"content": gofakeit.Sentence(10),
			})
			if id, ok := resp["id"].(float64); ok {
				postIDs = append(postIDs, id)
			}
		}
	}

	// cross-engagement
	for _, uid := range ids {
		for _, pid := range postIDs {
			if gofakeit.Bool() {
				call(tokens[uid], http.MethodPost, fmt.Sprintf("/posts/%.0f/like", pid), nil)
			}
			if gofakeit.Number(0, 3) == 0 {
				call(tokens[uid], http.MethodPost, fmt.Sprintf("/posts/%.0f/comment", pid), map[string]string{
					"content": gofakeit.Sentence(6),
				})
			}
		}
		for _, other := range ids {
			if other != uid && gofakeit.Bool() {
				call(tokens[uid], http.MethodPost, "/users/"+other+"/follow", nil)
			}
		}
	}

	log.Printf("seeded %d users, %d posts", nUsers, len(postIDs))
}

func call(token, method, path string, body any) map[string]any {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, baseURL+path, &buf)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("%s %s -> %d", method, path, resp.StatusCode)
		return nil
	}
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return out
}
