package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateTitle = errors.New("duplicate post title")
	ErrUserForeignKey = errors.New("author_id does not exist")
)

func newPostModel(db *sql.DB) *PostModel {
	return &PostModel{db: db}
}

// ForeignKeyError is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *PostModel) insertPost(ctx context.Context, p *Post) error {
	query := `
		INSERT INTO posts (author_id, title, subtitle, date, body, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	args := []any{p.AuthorID, p.Title, p.Subtitle, p.Date, p.Body, p.ImageURL}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&p.ID)
	if err != nil {
		switch {
		case err.Error() == "pq: duplicate key value violates unique constraint \"posts_title_key\"":
			return ErrDuplicateTitle
		case ForeignKeyError(err, "posts_author_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

// getPostByID joins the users table for the author's display identity.
func (m *PostModel) getPostByID(ctx context.Context, id int) (*Post, error) {
	query := `
		SELECT p.id, p.title, p.subtitle, p.date, p.body, p.image_url, p.author_id, u.name, u.avatar_url
		FROM posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.id = $1`

	row := m.db.QueryRowContext(ctx, query, id)

	var post Post
	err := row.Scan(&post.ID, &post.Title, &post.Subtitle, &post.Date, &post.Body, &post.ImageURL, &post.AuthorID, &post.Author.Name, &post.Author.AvatarURL)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	post.Author.ID = post.AuthorID

	return &post, nil
}

// getPosts lists all posts in creation order.
func (m *PostModel) getPosts(ctx context.Context) ([]Post, error) {
	query := `
		SELECT p.id, p.title, p.subtitle, p.date, p.body, p.image_url, p.author_id, u.name, u.avatar_url
		FROM posts p
		JOIN users u ON p.author_id = u.id
		ORDER BY p.id ASC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		err := rows.Scan(&post.ID, &post.Title, &post.Subtitle, &post.Date, &post.Body, &post.ImageURL, &post.AuthorID, &post.Author.Name, &post.Author.AvatarURL)
		if err != nil {
			return nil, err
		}
		post.Author.ID = post.AuthorID
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

// updatePost overwrites the editable fields. The date and author columns are
// deliberately absent from the SET list.
func (m *PostModel) updatePost(ctx context.Context, p *Post) error {
	query := `
		UPDATE posts
		SET title = $1, subtitle = $2, body = $3, image_url = $4
		WHERE id = $5
		RETURNING date, author_id`

	err := m.db.QueryRowContext(ctx, query, p.Title, p.Subtitle, p.Body, p.ImageURL, p.ID).Scan(&p.Date, &p.AuthorID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		case err.Error() == "pq: duplicate key value violates unique constraint \"posts_title_key\"":
			return ErrDuplicateTitle
		default:
			return err
		}
	}

	return nil
}

// deletePost removes the post and its comments in a single transaction. The
// cascade is explicit here rather than an ON DELETE rule in the schema.
func (m *PostModel) deletePost(ctx context.Context, id int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM comments WHERE post_id = $1", id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if rows != 1 {
		_ = tx.Rollback()
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return tx.Commit()
}

func (m *PostModel) insertComment(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (author_id, post_id, text)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := m.db.QueryRowContext(ctx, query, c.AuthorID, c.PostID, c.Text).Scan(&c.ID)
	if err != nil {
		switch {
		case ForeignKeyError(err, "comments_post_id_fkey"):
			return ErrRecordNotFound
		case ForeignKeyError(err, "comments_author_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

func (m *PostModel) getCommentsByPostID(ctx context.Context, postID int) ([]Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, c.text, u.name, u.avatar_url
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.post_id = $1
		ORDER BY c.id ASC`

	rows, err := m.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var comment Comment
		err := rows.Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Text, &comment.Author.Name, &comment.Author.AvatarURL)
		if err != nil {
			return nil, err
		}
		comment.Author.ID = comment.AuthorID
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
