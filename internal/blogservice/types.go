package blogservice

import (
	"database/sql"

	"github.com/sushihentaime/inkpot/internal/common"
)

// postDateFormat is the human-readable display date stamped on a post at
// creation time. It never changes after that.
const postDateFormat = "January 02, 2006"

type Author struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type Post struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Date     string `json:"date"`
	// Body is rich text; opaque to the store apart from script-tag stripping.
	Body     string    `json:"body"`
	ImageURL string    `json:"image_url"`
	AuthorID int       `json:"author_id"`
	Author   Author    `json:"author"`
	Comments []Comment `json:"comments,omitempty"`
}

type Comment struct {
	ID       int    `json:"id"`
	PostID   int    `json:"post_id"`
	AuthorID int    `json:"author_id"`
	Text     string `json:"text"`
	Author   Author `json:"author"`
}

type PostModel struct {
	db *sql.DB
}

type BlogService struct {
	m *PostModel
	c *common.Cache
}
