package users

import (
	"context"

	"github.com/ykachan/blogapi/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	AddBlogRef(ctx context.Context, userID string, blogID string) error
	RemoveBlogRef(ctx context.Context, userID string, blogID string) error
}
