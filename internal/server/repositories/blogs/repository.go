package blogs

import (
	"context"

	"github.com/ykachan/blogapi/internal/server/models"
)

// Update carries the optional fields of a partial blog update; nil fields are
// left untouched.
type Update struct {
	Title    *string
	Content  *string
	Category *string
}

// Filter narrows List-style queries; empty fields are not applied.
type Filter struct {
	Category string
	OwnerID  string
}

type Repository interface {
	Create(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	GetByID(ctx context.Context, id string) (*models.Blog, error)
	Update(ctx context.Context, id string, upd Update) (*models.Blog, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Blog, error)
	ListPage(ctx context.Context, offset, limit int) ([]*models.Blog, int64, error)
	Search(ctx context.Context, keyword string) ([]*models.Blog, error)
	Filter(ctx context.Context, f Filter) ([]*models.Blog, error)
}
