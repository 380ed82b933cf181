package blogservice

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/inkpot/internal/common"
)

// setupTestUser creates a user row directly; the identity service owns the
// real registration path.
func setupTestUser(db *sql.DB, email string) (int, error) {
	query := `
		INSERT INTO users (email, password, name, avatar_url, role)
		VALUES ($1, 'x', 'Test Author', 'https://www.gravatar.com/avatar/0', 'admin')
		RETURNING id`

	var id int
	err := db.QueryRow(query, email).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func setupTestEnvironment(t *testing.T) (*BlogService, *sql.DB, func() error, int) {
	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	authorID, err := setupTestUser(db, "author@example.com")
	assert.NoError(t, err)

	cleanup := func() error {
		_, err := db.Exec("DELETE FROM comments")
		if err != nil {
			return err
		}

		_, err = db.Exec("DELETE FROM posts")
		if err != nil {
			return err
		}

		cache.Flush()

		return nil
	}

	return NewBlogService(db, cache), db, cleanup, authorID
}

func testPostRequest(authorID int) *CreatePostRequest {
	return &CreatePostRequest{
		Title:    "Hello",
		Subtitle: "S",
		ImageURL: "http://x/y.png",
		Body:     "B",
		AuthorID: authorID,
	}
}

func TestCreatePost(t *testing.T) {
	s, db, cleanup, authorID := setupTestEnvironment(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	post, err := s.CreatePost(ctx, testPostRequest(authorID))
	assert.NoError(t, err)
	assert.NotZero(t, post.ID)
	assert.Equal(t, time.Now().Format(postDateFormat), post.Date)

	posts, err := s.GetPosts(ctx)
	assert.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, "Hello", posts[0].Title)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCreatePostValidation(t *testing.T) {
	s, _, cleanup, authorID := setupTestEnvironment(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testCases := []struct {
		name    string
		mutate  func(*CreatePostRequest)
		wantKey string
	}{
		{
			name:    "missing title",
			mutate:  func(r *CreatePostRequest) { r.Title = "" },
			wantKey: "title",
		},
		{
			name:    "missing subtitle",
			mutate:  func(r *CreatePostRequest) { r.Subtitle = "" },
			wantKey: "subtitle",
		},
		{
			name:    "relative image url",
			mutate:  func(r *CreatePostRequest) { r.ImageURL = "/y.png" },
			wantKey: "img_url",
		},
		{
			name:    "missing body",
			mutate:  func(r *CreatePostRequest) { r.Body = "" },
			wantKey: "body",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testPostRequest(authorID)
			tc.mutate(req)

			_, err := s.CreatePost(ctx, req)

			var validationErr common.ValidationError
			assert.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Errors, tc.wantKey)
		})
	}
}

func TestCreatePostDuplicateTitle(t *testing.T) {
	s, db, cleanup, authorID := setupTestEnvironment(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.CreatePost(ctx, testPostRequest(authorID))
	assert.NoError(t, err)

	_, err = s.CreatePost(ctx, testPostRequest(authorID))
	assert.ErrorIs(t, err, ErrDuplicateTitle)

	// store unchanged
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpdatePostPreservesDateAndAuthor(t *testing.T) {
	s, db, cleanup, authorID := setupTestEnvironment(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	created, err := s.CreatePost(ctx, testPostRequest(authorID))
	assert.NoError(t, err)

	err = s.UpdatePost(ctx, &UpdatePostRequest{
		ID:       created.ID,
		Title:    "Hello Again",
		Subtitle: "New Subtitle",
		ImageURL: "http://x/z.png",
		Body:     "Updated body",
	})
	assert.NoError(t, err)

	var title, date string
	var postAuthorID int
	err = db.QueryRow("SELECT title, date, author_id FROM posts WHERE id = $1", created.ID).Scan(&title, &date, &postAuthorID)
	assert.NoError(t, err)
	assert.Equal(t, "Hello Again", title)
	assert.Equal(t, created.Date, date)
	assert.Equal(t, authorID, postAuthorID)
}

func TestUpdatePostNotFound(t *testing.T) {
	s, _, cleanup, _ := setupTestEnvironment(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.UpdatePost(ctx, &UpdatePostRequest{
		ID:       99999,
		Title:    "Ghost",
		Subtitle: "S",
		ImageURL: "http://x/y.png",
		Body:     "B",
	})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeletePostCascadesComments(t *testing.T) {
	s, db, cleanup, authorID := setupTestEnvironment(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first, err := s.CreatePost(ctx, testPostRequest(authorID))
	assert.NoError(t, err)

	secondReq := testPostRequest(authorID)
	secondReq.Title = "Second Post"
	second, err := s.CreatePost(ctx, secondReq)
	assert.NoError(t, err)

	_, err = s.AddComment(ctx, first.ID, authorID, "on the first post")
	assert.NoError(t, err)
	_, err = s.AddComment(ctx, second.ID, authorID, "on the second post")
	assert.NoError(t, err)

	err = s.DeletePost(ctx, first.ID)
	assert.NoError(t, err)

	// the first post's comments are gone and no others
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM comments WHERE post_id = $1", first.ID).Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)

	err = db.QueryRow("SELECT COUNT(*) FROM comments").Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeletePostNotFound(t *testing.T) {
	s, _, cleanup, _ := setupTestEnvironment(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.DeletePost(ctx, 99999)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestAddComment(t *testing.T) {
	s, _, cleanup, authorID := setupTestEnvironment(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	post, err := s.CreatePost(ctx, testPostRequest(authorID))
	assert.NoError(t, err)

	comment, err := s.AddComment(ctx, post.ID, authorID, "Nice!")
	assert.NoError(t, err)
	assert.NotZero(t, comment.ID)

	got, err := s.GetPost(ctx, post.ID)
	assert.NoError(t, err)
	assert.Len(t, got.Comments, 1)
	assert.Equal(t, "Nice!", got.Comments[0].Text)
}

func TestAddCommentPostNotFound(t *testing.T) {
	s, _, cleanup, authorID := setupTestEnvironment(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.AddComment(ctx, 99999, authorID, "into the void")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestGetPostsCreationOrder(t *testing.T) {
	s, _, cleanup, authorID := setupTestEnvironment(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	titles := []string{"First", "Second", "Third"}
	for _, title := range titles {
		req := testPostRequest(authorID)
		req.Title = title
		_, err := s.CreatePost(ctx, req)
		assert.NoError(t, err)
	}

	posts, err := s.GetPosts(ctx)
	assert.NoError(t, err)
	assert.Len(t, posts, 3)
	for i, title := range titles {
		assert.Equal(t, title, posts[i].Title)
	}
}

func TestGetPostNotFound(t *testing.T) {
	s, _, cleanup, _ := setupTestEnvironment(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.GetPost(ctx, 99999)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
