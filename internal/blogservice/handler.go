package blogservice

import (
	"context"
	"database/sql"
	"time"

	"github.com/sushihentaime/inkpot/internal/common"
)

func NewBlogService(db *sql.DB, c *common.Cache) *BlogService {
	return &BlogService{m: newPostModel(db), c: c}
}

type CreatePostRequest struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"img_url"`
	Body     string `json:"body"`
	AuthorID int    `json:"author_id"`
}

// CreatePost creates a new post owned by the acting author. The display date
// is stamped at call time and is immutable afterwards. A colliding title
// returns ErrDuplicateTitle and leaves the store unchanged.
func (s *BlogService) CreatePost(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateSubtitle(v, req.Subtitle)
	validateImageURL(v, req.ImageURL)
	validateBody(v, req.Body)
	validateInt(v, req.AuthorID, "author_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	post := Post{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Date:     time.Now().Format(postDateFormat),
		Body:     sanitizeRichText(req.Body),
		ImageURL: req.ImageURL,
		AuthorID: req.AuthorID,
	}

	if err := s.m.insertPost(ctx, &post); err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyPostList())

	return &post, nil
}

// GetPost returns a post with its author and comments.
func (s *BlogService) GetPost(ctx context.Context, id int) (*Post, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if cached, ok := s.c.Get(common.CacheKeyPost(id)); ok {
		if post, ok := cached.(*Post); ok {
			return post, nil
		}
	}

	post, err := s.m.getPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.m.getCommentsByPostID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Comments = comments

	s.c.Set(common.CacheKeyPost(id), post)

	return post, nil
}

// GetPosts returns all posts in creation order.
func (s *BlogService) GetPosts(ctx context.Context) ([]Post, error) {
	if cached, ok := s.c.Get(common.CacheKeyPostList()); ok {
		if posts, ok := cached.([]Post); ok {
			return posts, nil
		}
	}

	posts, err := s.m.getPosts(ctx)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyPostList(), posts)

	return posts, nil
}

type UpdatePostRequest struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"img_url"`
	Body     string `json:"body"`
}

// UpdatePost overwrites title, subtitle, image URL and body in one statement.
// The creation date and author are never touched.
func (s *BlogService) UpdatePost(ctx context.Context, req *UpdatePostRequest) error {
	v := common.NewValidator()
	validateInt(v, req.ID, "id")
	validateTitle(v, req.Title)
	validateSubtitle(v, req.Subtitle)
	validateImageURL(v, req.ImageURL)
	validateBody(v, req.Body)
	if !v.Valid() {
		return v.ValidationError()
	}

	post := Post{
		ID:       req.ID,
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Body:     sanitizeRichText(req.Body),
		ImageURL: req.ImageURL,
	}

	if err := s.m.updatePost(ctx, &post); err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyPost(req.ID))
	s.c.Delete(common.CacheKeyPostList())

	return nil
}

// DeletePost removes a post and cascades to its comments.
func (s *BlogService) DeletePost(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	if err := s.m.deletePost(ctx, id); err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyPost(id))
	s.c.Delete(common.CacheKeyPostList())

	return nil
}

// AddComment appends an immutable comment bound to (author, post). A missing
// post surfaces as ErrRecordNotFound via the foreign key.
func (s *BlogService) AddComment(ctx context.Context, postID, authorID int, text string) (*Comment, error) {
	v := common.NewValidator()
	validateInt(v, postID, "post_id")
	validateInt(v, authorID, "author_id")
	validateCommentText(v, text)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	comment := Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     sanitizeRichText(text),
	}

	if err := s.m.insertComment(ctx, &comment); err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyPost(postID))

	return &comment, nil
}
