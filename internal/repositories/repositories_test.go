package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/errs"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/gorm"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func createUsers(t *testing.T, db *gorm.DB, names ...string) []*models.User {
	t.Helper()
	repo := NewPostgresUserRepository(db)
	users := make([]*models.User, len(names))
	for i, name := range names {
		u := &models.User{Username: name, Email: name + "@example.com"}
		if err := repo.CreateUser(context.Background(), u); err != nil {
			t.Fatalf("create user %s: %v", name, err)
		}
		users[i] = u
	}
	return users
}

func createPost(t *testing.T, db *gorm.DB, author uint, title, content string, age time.Duration) *models.Post {
	t.Helper()
	p := &models.Post{AuthorID: author, Title: title, Content: content, CreatedAt: base.Add(-age), UpdatedAt: base.Add(-age)}
	if err := NewPostgresPostRepository(db).CreatePost(context.Background(), p); err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return p
}

func titles(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i := range posts {
		out[i] = posts[i].Title
	}
	return out
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		ordering string
		want     string
	}{
		{"", "posts.created_at DESC, posts.id DESC"},
		{"title", "posts.title ASC, posts.id ASC"},
		{"-title,created_at", "posts.title DESC, posts.created_at ASC, posts.id DESC"},
		{"bogus", "posts.created_at DESC, posts.id DESC"},
		{"bogus, -updated_at", "posts.updated_at DESC, posts.id DESC"},
	}
	for _, tt := range tests {
		if got := postFields.orderBy(tt.ordering); got != tt.want {
			t.Errorf("orderBy(%q) = %q, want %q", tt.ordering, got, tt.want)
		}
	}
}

func TestListPosts(t *testing.T) {
	db := testutil.NewDB(t)
	users := createUsers(t, db, "alice", "bob")
	alice, bob := users[0], users[1]
	createPost(t, db, alice.ID, "100% real", "plain", 3*time.Hour)
	createPost(t, db, alice.ID, "1000 reasons", "more", 2*time.Hour)
	createPost(t, db, bob.ID, "snake_case", "Go Tips", time.Hour)
	createPost(t, db, bob.ID, "snakeXcase", "go tips too", 0)

	repo := NewPostgresPostRepository(db)
	ctx := context.Background()

	tests := []struct {
		name string
		q    ListQuery
		want []string
	}{
		{"default newest first", ListQuery{}, []string{"snakeXcase", "snake_case", "1000 reasons", "100% real"}},
		{"percent is literal", ListQuery{Search: "100%"}, []string{"100% real"}},
		{"underscore is literal", ListQuery{Search: "snake_"}, []string{"snake_case"}},
		{"case-insensitive across fields", ListQuery{Search: "GO TIPS"}, []string{"snakeXcase", "snake_case"}},
		{"author filter", ListQuery{Filters: map[string]interface{}{"author": alice.ID}}, []string{"1000 reasons", "100% real"}},
		{"unknown filter ignored", ListQuery{Filters: map[string]interface{}{"colour": "red"}}, []string{"snakeXcase", "snake_case", "1000 reasons", "100% real"}},
		{"ordering", ListQuery{Ordering: "title"}, []string{"100% real", "1000 reasons", "snakeXcase", "snake_case"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := repo.ListPosts(ctx, tt.q)
			if err != nil {
				t.Fatalf("ListPosts: %v", err)
			}
			if got := titles(posts); fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("titles = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchFoldsNonASCII(t *testing.T) {
	db := testutil.NewDB(t)
	author := createUsers(t, db, "zoé")[0]
	createPost(t, db, author.ID, "Élan vital", "Über alles", time.Hour)
	createPost(t, db, author.ID, "plain", "ascii only", 0)

	repo := NewPostgresPostRepository(db)
	for _, term := range []string{"élan", "ÉLAN", "Élan", "über", "ÜBER ÉLAN"} {
		posts, err := repo.ListPosts(context.Background(), ListQuery{Search: term})
		if err != nil {
			t.Fatalf("ListPosts(%q): %v", term, err)
		}
		if got := titles(posts); fmt.Sprint(got) != "[Élan vital]" {
			t.Errorf("search %q = %v, want [Élan vital]", term, got)
		}
	}

	users, err := NewPostgresUserRepository(db).SearchUsers(context.Background(), "ZOÉ")
	if err != nil || len(users) != 1 {
		t.Errorf("SearchUsers(ZOÉ) = %v, %v", users, err)
	}
}

func TestFeedAndCommentCounts(t *testing.T) {
	db := testutil.NewDB(t)
	users := createUsers(t, db, "a", "b", "c", "d")
	a, b, c, d := users[0], users[1], users[2], users[3]
	ctx := context.Background()

	follows := NewPostgresFollowRepository(db)
	for _, target := range []uint{b.ID, c.ID} {
		if _, err := follows.CreateFollow(ctx, &models.Follow{FollowerID: a.ID, FollowingID: target}); err != nil {
			t.Fatalf("follow: %v", err)
		}
	}
	pb := createPost(t, db, b.ID, "from b", "x", 2*time.Hour)
	pc := createPost(t, db, c.ID, "from c", "x", time.Hour)
	createPost(t, db, d.ID, "from d", "x", 0)
	createPost(t, db, a.ID, "from a", "x", 0)

	posts := NewPostgresPostRepository(db)
	feed, err := posts.GetFeed(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	if got := titles(feed); fmt.Sprint(got) != "[from c from b]" {
		t.Errorf("feed = %v", got)
	}

	empty, err := posts.GetFeed(ctx, d.ID)
	if err != nil || len(empty) != 0 {
		t.Errorf("feed of user following nobody = %v, %v", empty, err)
	}

	comments := NewPostgresCommentRepository(db)
	for i := 0; i < 2; i++ {
		if err := comments.CreateComment(ctx, &models.Comment{PostID: pb.ID, AuthorID: a.ID, Content: "hi"}); err != nil {
			t.Fatalf("CreateComment: %v", err)
		}
	}
	counts, err := posts.GetCommentsCounts(ctx, []uint{pb.ID, pc.ID})
	if err != nil {
		t.Fatalf("GetCommentsCounts: %v", err)
	}
	if counts[pb.ID] != 2 || counts[pc.ID] != 0 {
		t.Errorf("counts = %v", counts)
	}
}

func TestLikeAndFollowAreIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	users := createUsers(t, db, "alice", "bob")
	alice, bob := users[0], users[1]
	post := createPost(t, db, bob.ID, "T1", "C1", 0)
	ctx := context.Background()

	likes := NewPostgresLikeRepository(db)
	first := &models.Like{UserID: alice.ID, PostID: post.ID}
	created, err := likes.GetOrCreateLike(ctx, first)
	if err != nil || !created {
		t.Fatalf("first like: created=%v err=%v", created, err)
	}
	second := &models.Like{UserID: alice.ID, PostID: post.ID}
	created, err = likes.GetOrCreateLike(ctx, second)
	if err != nil || created {
		t.Fatalf("second like: created=%v err=%v", created, err)
	}
	if second.ID != first.ID {
		t.Errorf("second like id = %d, want existing %d", second.ID, first.ID)
	}
	if n, _ := likes.GetLikesCountByPostID(ctx, post.ID); n != 1 {
		t.Errorf("likes = %d, want 1", n)
	}
	if removed, _ := likes.DeleteLike(ctx, alice.ID, post.ID); !removed {
		t.Error("DeleteLike reported nothing removed")
	}
	if removed, _ := likes.DeleteLike(ctx, alice.ID, post.ID); removed {
		t.Error("second DeleteLike removed a row")
	}

	follows := NewPostgresFollowRepository(db)
	for i, want := range []bool{true, false} {
		created, err := follows.CreateFollow(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID})
		if err != nil || created != want {
			t.Errorf("follow #%d: created=%v err=%v, want %v", i+1, created, err, want)
		}
	}
	if n, _ := follows.GetFollowersCount(ctx, bob.ID); n != 1 {
		t.Errorf("followers = %d, want 1", n)
	}
}

func TestUserRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()
	users := createUsers(t, db, "alice", "bob")

	err := repo.CreateUser(ctx, &models.User{Username: "alice"})
	if !errs.Is(err, errs.ECONFLICT) {
		t.Errorf("duplicate username err = %v, want ECONFLICT", err)
	}

	got, err := repo.GetUserByID(ctx, users[0].ID)
	if err != nil || got.Profile == nil {
		t.Fatalf("GetUserByID = %+v, %v; want user with profile", got, err)
	}
	if _, err := repo.GetUserByID(ctx, 999); errs.ErrorMessage(err) != "User not found." {
		t.Errorf("missing user err = %v", err)
	}

	found, err := repo.SearchUsers(ctx, "BOB@")
	if err != nil || len(found) != 1 || found[0].Username != "bob" {
		t.Errorf("SearchUsers = %v, %v", found, err)
	}

	if err := repo.DeleteUser(ctx, users[1].ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if err := repo.DeleteUser(ctx, users[1].ID); !errs.Is(err, errs.ENOTFOUND) {
		t.Errorf("second DeleteUser err = %v, want ENOTFOUND", err)
	}
}

func TestNotificationRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresNotificationRepository(db)
	ctx := context.Background()
	actor := uint(2)

	for i, id := range []string{"n1", "n3", "n2"} {
		n := &models.Notification{
			ID:          id,
			RecipientID: 1,
			ActorID:     &actor,
			Verb:        models.VerbLiked,
			Unread:      true,
			CreatedAt:   base.Add(time.Duration(i/2) * time.Minute),
		}
		if err := repo.CreateNotification(ctx, n); err != nil {
			t.Fatalf("CreateNotification: %v", err)
		}
	}

	list, err := repo.GetByRecipientID(ctx, 1, false)
	if err != nil {
		t.Fatalf("GetByRecipientID: %v", err)
	}
	var ids []string
	for _, n := range list {
		ids = append(ids, n.ID)
	}
	// n2 is newest; n1 and n3 share a timestamp and tie-break by id.
	if fmt.Sprint(ids) != "[n2 n3 n1]" {
		t.Errorf("order = %v", ids)
	}

	if n, _ := repo.GetUnreadCount(ctx, 1); n != 3 {
		t.Errorf("unread = %d, want 3", n)
	}
	if err := repo.MarkAllAsRead(ctx, 1); err != nil {
		t.Fatalf("MarkAllAsRead: %v", err)
	}
	if unread, _ := repo.GetByRecipientID(ctx, 1, true); len(unread) != 0 {
		t.Errorf("unread after mark = %v", unread)
	}

	if err := repo.DetachActor(ctx, actor); err != nil {
		t.Fatalf("DetachActor: %v", err)
	}
	list, _ = repo.GetByRecipientID(ctx, 1, false)
	for _, n := range list {
		if n.ActorID != nil {
			t.Errorf("notification %s still has actor %d", n.ID, *n.ActorID)
		}
	}

	if err := repo.DeleteByRecipientID(ctx, 1); err != nil {
		t.Fatalf("DeleteByRecipientID: %v", err)
	}
	if list, _ := repo.GetByRecipientID(ctx, 1, false); len(list) != 0 {
		t.Errorf("notifications after delete = %v", list)
	}
}

func TestMongoQueryShapes(t *testing.T) {
	all := recipientFilter(7, false)
	if len(all) != 1 || all["recipient_id"] != uint(7) {
		t.Errorf("recipientFilter(all) = %v", all)
	}
	unread := recipientFilter(7, true)
	if unread["unread"] != true {
		t.Errorf("recipientFilter(unread) = %v", unread)
	}

	want := bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}
	if fmt.Sprint(notificationSort()) != fmt.Sprint(want) {
		t.Errorf("notificationSort() = %v", notificationSort())
	}
}
