package handlers_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/auth"
	"github.com/anonto42/nano-social/backend/internal/router"
	"github.com/anonto42/nano-social/backend/internal/testutil"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

type apiClient struct {
	t *testing.T
	e *echo.Echo
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	e := echo.New()
	router.SetupEcho(e)
	router.SetupRoutes(e, router.Dependencies{
		DB:     testutil.NewDB(t),
		Tokens: auth.NewTokenManager("test-secret", time.Hour),
		Clock:  testutil.Clock(),
	})
	return &apiClient{t: t, e: e}
}

// do sends a request and decodes the JSON response into out when non-nil.
func (a *apiClient) do(method, path, token string, body interface{}, out interface{}) int {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			a.t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

type registered struct {
	Token string `json:"token"`
	User  struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

func (a *apiClient) register(username string) registered {
	a.t.Helper()
	var out registered
	status := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, &out)
	if status != http.StatusCreated || out.Token == "" {
		a.t.Fatalf("register %s: status %d, %+v", username, status, out)
	}
	return out
}

type postJSON struct {
	ID             uint   `json:"id"`
	Author         uint   `json:"author"`
	AuthorUsername string `json:"author_username"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	CommentsCount  int64  `json:"comments_count"`
}

type notificationJSON struct {
	ID     string `json:"id"`
	Verb   string `json:"verb"`
	Unread bool   `json:"unread"`
	Actor  *struct {
		Username string `json:"username"`
	} `json:"actor_detail"`
	Target *struct {
		Kind string `json:"kind"`
		ID   uint   `json:"id"`
	} `json:"target"`
	TargetRepr string `json:"target_repr"`
}

func TestSocialFlow(t *testing.T) {
	api := newAPI(t)
	alice := api.register("alice")
	bob := api.register("bob")

	var msg map[string]string
	if status := api.do(http.MethodPost, "/api/v1/posts", "", map[string]string{"title": "T1", "content": "C1"}, &msg); status != http.StatusUnauthorized {
		t.Fatalf("anonymous create post: status %d", status)
	}

	path := fmt.Sprintf("/api/v1/users/%d/follow", bob.User.ID)
	if status := api.do(http.MethodPost, path, alice.Token, nil, &msg); status != http.StatusOK || msg["detail"] != "Now following bob." {
		t.Fatalf("follow: status %d, %v", status, msg)
	}

	var post postJSON
	if status := api.do(http.MethodPost, "/api/v1/posts", bob.Token, map[string]string{"title": "T1", "content": "C1"}, &post); status != http.StatusCreated {
		t.Fatalf("create post: status %d", status)
	}
	if post.AuthorUsername != "bob" || post.Author != bob.User.ID || post.CommentsCount != 0 {
		t.Errorf("post = %+v", post)
	}

	var feed []postJSON
	if status := api.do(http.MethodGet, "/api/v1/feed", alice.Token, nil, &feed); status != http.StatusOK {
		t.Fatalf("feed: status %d", status)
	}
	if len(feed) != 1 || feed[0].Title != "T1" {
		t.Fatalf("feed = %+v, want one post T1", feed)
	}

	likePath := fmt.Sprintf("/api/v1/posts/%d/like", post.ID)
	if status := api.do(http.MethodPost, likePath, alice.Token, nil, &msg); status != http.StatusCreated {
		t.Errorf("first like: status %d", status)
	}
	if status := api.do(http.MethodPost, likePath, alice.Token, nil, &msg); status != http.StatusOK || msg["detail"] != "Already liked." {
		t.Errorf("second like: status %d, %v", status, msg)
	}

	var likes struct {
		Count int64 `json:"likes_count"`
		Liked *bool `json:"liked"`
	}
	api.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d/likes", post.ID), alice.Token, nil, &likes)
	if likes.Count != 1 || likes.Liked == nil || !*likes.Liked {
		t.Errorf("likes = %+v", likes)
	}

	var notes []notificationJSON
	if status := api.do(http.MethodGet, "/api/v1/notifications", bob.Token, nil, &notes); status != http.StatusOK {
		t.Fatalf("notifications: status %d", status)
	}
	if len(notes) != 1 {
		t.Fatalf("notifications = %+v, want 1", notes)
	}
	n := notes[0]
	if n.Verb != "liked" || !n.Unread || n.Actor == nil || n.Actor.Username != "alice" {
		t.Errorf("notification = %+v", n)
	}
	if n.Target == nil || n.Target.Kind != "post" || n.Target.ID != post.ID || n.TargetRepr != "T1" {
		t.Errorf("notification target = %+v, repr %q", n.Target, n.TargetRepr)
	}

	var aliceNotes []notificationJSON
	api.do(http.MethodGet, "/api/v1/notifications", alice.Token, nil, &aliceNotes)
	if len(aliceNotes) != 0 {
		t.Errorf("alice has notifications %+v; follows must not notify", aliceNotes)
	}

	unlikePath := fmt.Sprintf("/api/v1/posts/%d/unlike", post.ID)
	if status := api.do(http.MethodPost, unlikePath, alice.Token, nil, &msg); status != http.StatusOK {
		t.Errorf("unlike: status %d", status)
	}
	if status := api.do(http.MethodPost, unlikePath, alice.Token, nil, &msg); status != http.StatusBadRequest || msg["detail"] != "Not liked yet." {
		t.Errorf("second unlike: status %d, %v", status, msg)
	}

	commentsPath := fmt.Sprintf("/api/v1/posts/%d/comments", post.ID)
	var fieldErr map[string]string
	if status := api.do(http.MethodPost, commentsPath, alice.Token, map[string]string{"content": "   "}, &fieldErr); status != http.StatusBadRequest {
		t.Errorf("blank comment: status %d", status)
	}
	if fieldErr["content"] != "Content cannot be empty." {
		t.Errorf("blank comment body = %v", fieldErr)
	}
	var comment struct {
		ID             uint   `json:"id"`
		Post           uint   `json:"post"`
		AuthorUsername string `json:"author_username"`
	}
	if status := api.do(http.MethodPost, commentsPath, alice.Token, map[string]string{"content": "ok"}, &comment); status != http.StatusCreated {
		t.Fatalf("comment: status %d", status)
	}
	if comment.Post != post.ID || comment.AuthorUsername != "alice" {
		t.Errorf("comment = %+v", comment)
	}

	var count struct {
		Unread int64 `json:"unread_count"`
	}
	api.do(http.MethodGet, "/api/v1/notifications/unread-count", bob.Token, nil, &count)
	if count.Unread != 2 {
		t.Errorf("unread_count = %d, want 2", count.Unread)
	}

	var latest notificationJSON
	if status := api.do(http.MethodPost, "/api/v1/notifications/mark-read", bob.Token, nil, &latest); status != http.StatusOK {
		t.Fatalf("mark-read: status %d", status)
	}
	if latest.Verb != "commented" || latest.Unread {
		t.Errorf("mark-read returned %+v, want latest commented notification, read", latest)
	}
	var unread []notificationJSON
	api.do(http.MethodGet, "/api/v1/notifications?unread=True", bob.Token, nil, &unread)
	if len(unread) != 0 {
		t.Errorf("unread after mark-read = %+v", unread)
	}

	var got postJSON
	api.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", post.ID), "", nil, &got)
	if got.CommentsCount != 1 {
		t.Errorf("comments_count = %d, want 1", got.CommentsCount)
	}
}

func TestPostPermissionsAndErrors(t *testing.T) {
	api := newAPI(t)
	alice := api.register("alice")
	bob := api.register("bob")

	var post postJSON
	api.do(http.MethodPost, "/api/v1/posts", bob.Token, map[string]string{"title": "T1", "content": "C1"}, &post)

	var msg map[string]string
	postPath := fmt.Sprintf("/api/v1/posts/%d", post.ID)
	if status := api.do(http.MethodPatch, postPath, alice.Token, map[string]string{"title": "mine now"}, &msg); status != http.StatusForbidden {
		t.Errorf("non-owner patch: status %d", status)
	}
	if status := api.do(http.MethodDelete, postPath, alice.Token, nil, nil); status != http.StatusForbidden {
		t.Errorf("non-owner delete: status %d", status)
	}

	var updated postJSON
	if status := api.do(http.MethodPatch, postPath, bob.Token, map[string]string{"title": "T2"}, &updated); status != http.StatusOK {
		t.Fatalf("owner patch: status %d", status)
	}
	if updated.Title != "T2" || updated.Content != "C1" {
		t.Errorf("updated = %+v", updated)
	}

	if status := api.do(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", alice.User.ID), alice.Token, nil, &msg); status != http.StatusBadRequest || msg["detail"] != "You cannot follow yourself." {
		t.Errorf("self follow: status %d, %v", status, msg)
	}
	if status := api.do(http.MethodPost, "/api/v1/users/999/follow", alice.Token, nil, &msg); status != http.StatusNotFound {
		t.Errorf("follow missing user: status %d", status)
	}
	if status := api.do(http.MethodGet, "/api/v1/posts/abc", "", nil, &msg); status != http.StatusNotFound {
		t.Errorf("malformed id: status %d", status)
	}
	if status := api.do(http.MethodGet, "/api/v1/feed", "", nil, &msg); status != http.StatusUnauthorized {
		t.Errorf("anonymous feed: status %d", status)
	}
	if status := api.do(http.MethodGet, "/api/v1/feed", "garbage", nil, &msg); status != http.StatusUnauthorized {
		t.Errorf("bad token: status %d", status)
	}

	if status := api.do(http.MethodDelete, postPath, bob.Token, nil, nil); status != http.StatusNoContent {
		t.Errorf("owner delete: status %d", status)
	}
	if status := api.do(http.MethodGet, postPath, "", nil, &msg); status != http.StatusNotFound {
		t.Errorf("deleted post: status %d", status)
	}
}

func TestPostListing(t *testing.T) {
	api := newAPI(t)
	alice := api.register("alice")
	bob := api.register("bob")

	api.do(http.MethodPost, "/api/v1/posts", alice.Token, map[string]string{"title": "Banana bread", "content": "recipe"}, nil)
	api.do(http.MethodPost, "/api/v1/posts", bob.Token, map[string]string{"title": "Apple pie", "content": "another recipe"}, nil)
	api.do(http.MethodPost, "/api/v1/posts", bob.Token, map[string]string{"title": "Cherry", "content": "no baking"}, nil)

	var posts []postJSON
	api.do(http.MethodGet, "/api/v1/posts", "", nil, &posts)
	if len(posts) != 3 || posts[0].Title != "Cherry" {
		t.Errorf("default ordering = %+v, want newest first", posts)
	}

	api.do(http.MethodGet, "/api/v1/posts?ordering=title", "", nil, &posts)
	if len(posts) != 3 || posts[0].Title != "Apple pie" || posts[2].Title != "Cherry" {
		t.Errorf("ordering=title = %+v", posts)
	}

	api.do(http.MethodGet, "/api/v1/posts?search=RECIPE", "", nil, &posts)
	if len(posts) != 2 {
		t.Errorf("search = %+v, want 2 posts", posts)
	}

	api.do(http.MethodGet, fmt.Sprintf("/api/v1/posts?author=%d", bob.User.ID), "", nil, &posts)
	if len(posts) != 2 {
		t.Errorf("author filter = %+v, want bob's 2 posts", posts)
	}
}

func TestAuthAndProfile(t *testing.T) {
	api := newAPI(t)
	alice := api.register("alice")

	var msg map[string]string
	if status := api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"username": "alice", "password": "password123"}, &msg); status != http.StatusConflict {
		t.Errorf("duplicate register: status %d", status)
	}
	if status := api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"username": "zed", "password": "short"}, &msg); status != http.StatusBadRequest || msg["password"] == "" {
		t.Errorf("short password: status %d, %v", status, msg)
	}
	if status := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "alice", "password": "wrong-password"}, &msg); status != http.StatusUnauthorized {
		t.Errorf("bad login: status %d", status)
	}
	var login registered
	if status := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "alice", "password": "password123"}, &login); status != http.StatusOK || login.Token == "" {
		t.Errorf("login: status %d", status)
	}
	if status := api.do(http.MethodPost, "/api/v1/auth/firebase-login", "", map[string]string{"idToken": "x"}, &msg); status != http.StatusNotImplemented {
		t.Errorf("firebase login without firebase: status %d", status)
	}

	var profile struct {
		Username string `json:"username"`
		Profile  struct {
			Bio string `json:"bio"`
		} `json:"profile"`
		FollowersCount int64 `json:"followers_count"`
	}
	if status := api.do(http.MethodPut, "/api/v1/profile", alice.Token, map[string]string{"bio": "hi there"}, &profile); status != http.StatusOK {
		t.Fatalf("update profile: status %d", status)
	}
	if profile.Username != "alice" || profile.Profile.Bio != "hi there" {
		t.Errorf("profile = %+v", profile)
	}

	var found []struct {
		Username string `json:"username"`
	}
	api.do(http.MethodGet, "/api/v1/users/search?q=ALI", "", nil, &found)
	if len(found) != 1 || found[0].Username != "alice" {
		t.Errorf("search = %+v", found)
	}
	if status := api.do(http.MethodGet, "/api/v1/users/search", "", nil, &msg); status != http.StatusBadRequest {
		t.Errorf("search without q: status %d", status)
	}

	if status := api.do(http.MethodDelete, "/api/v1/profile", alice.Token, nil, nil); status != http.StatusNoContent {
		t.Errorf("delete profile: status %d", status)
	}
	if status := api.do(http.MethodGet, "/api/v1/profile", alice.Token, nil, &msg); status != http.StatusUnauthorized {
		t.Errorf("profile after delete: status %d", status)
	}
}
