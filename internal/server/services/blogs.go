// This file implements BlogService, which creates and deletes blogs while
// keeping the owner's denormalized blog list consistent, and enforces the
// single-owner-write authorization check.
//
// Create and Remove are two-step sagas, not cross-table transactions: the
// blog row and the owner's list are written in separate statements, and a
// failure of the second step triggers a best-effort compensating action that
// restores the pre-call state. A failed compensation is logged as a distinct
// event and requires manual reconciliation.
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ykachan/blogapi/internal/common"
	"github.com/ykachan/blogapi/internal/logging"
	"github.com/ykachan/blogapi/internal/server/models"
	"github.com/ykachan/blogapi/internal/server/repositories/blogs"
	"github.com/ykachan/blogapi/internal/server/repositories/users"
)

// CreateBlogInput carries the fields of a blog creation request.
type CreateBlogInput struct {
	Title    string
	Content  string
	Category string
}

// Page is the result of a paginated listing: one page of blogs plus the
// total number of stored blogs.
type Page struct {
	Data  []*models.Blog
	Total int64
}

type BlogService struct {
	blogs  blogs.Repository
	users  users.Repository
	logger logging.Logger
}

func NewBlogService(blogRepo blogs.Repository, userRepo users.Repository, logger logging.Logger) *BlogService {
	return &BlogService{
		blogs:  blogRepo,
		users:  userRepo,
		logger: logger.With("module", "blog_service"),
	}
}

// Create persists the blog and then appends its id to the owner's blog list.
// If the append fails, the just-created blog is deleted to restore the
// pre-call invariant, and the call fails with common.ErrorOwnershipSync.
// Nothing is retried.
func (s *BlogService) Create(ctx context.Context, in CreateBlogInput, ownerID string) (*models.Blog, error) {
	blog, err := s.blogs.Create(ctx, &models.Blog{
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
		OwnerID:  ownerID,
	})
	if err != nil {
		s.logger.Error(ctx, "blog persistence failed", "owner_id", ownerID, "error", err.Error())
		return nil, common.ErrorInternal
	}

	if err := s.users.AddBlogRef(ctx, ownerID, blog.ID); err != nil {
		s.logger.Error(ctx, "owner list link failed",
			"blog_id", blog.ID, "owner_id", ownerID, "error", err.Error())

		if derr := s.blogs.Delete(ctx, blog.ID); derr != nil {
			// Orphaned blog with no owner reference; needs manual reconciliation.
			s.logger.Error(ctx, "compensation failed",
				"saga", "create", "blog_id", blog.ID, "owner_id", ownerID, "error", derr.Error())
		} else {
			s.logger.Warn(ctx, "compensated: blog deleted after link failure",
				"blog_id", blog.ID, "owner_id", ownerID)
		}

		return nil, common.ErrorOwnershipSync
	}

	return blog, nil
}

// Remove drops the blog id from the owner's list and then deletes the blog.
// If the delete fails, the reference is re-appended so the blog stays
// reachable from its owner, and the call fails with common.ErrorRemoval.
func (s *BlogService) Remove(ctx context.Context, blogID, ownerID string) error {
	if err := s.users.RemoveBlogRef(ctx, ownerID, blogID); err != nil {
		s.logger.Error(ctx, "owner list unlink failed",
			"blog_id", blogID, "owner_id", ownerID, "error", err.Error())
		return common.ErrorRemoval
	}

	if err := s.blogs.Delete(ctx, blogID); err != nil {
		s.logger.Error(ctx, "blog delete failed",
			"blog_id", blogID, "owner_id", ownerID, "error", err.Error())

		if rerr := s.users.AddBlogRef(ctx, ownerID, blogID); rerr != nil {
			// Live blog no longer referenced by its owner; needs manual reconciliation.
			s.logger.Error(ctx, "compensation failed",
				"saga", "remove", "blog_id", blogID, "owner_id", ownerID, "error", rerr.Error())
		} else {
			s.logger.Warn(ctx, "compensated: owner reference restored after delete failure",
				"blog_id", blogID, "owner_id", ownerID)
		}

		return common.ErrorRemoval
	}

	return nil
}

// FindByID returns the blog with its owner resolved to a summary.
// A syntactically invalid id is a client error, not a not-found.
func (s *BlogService) FindByID(ctx context.Context, id string) (*models.Blog, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorInvalidID
	}

	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "blog fetch failed", "blog_id", id, "error", err.Error())
		return nil, common.ErrorInternal
	}

	return blog, nil
}

// Update applies a partial update and returns the updated blog.
func (s *BlogService) Update(ctx context.Context, id string, upd blogs.Update) (*models.Blog, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorInvalidID
	}

	blog, err := s.blogs.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "blog update failed", "blog_id", id, "error", err.Error())
		return nil, common.ErrorInternal
	}

	return blog, nil
}

// AuthorizeOwnerAction returns nil only when requesterID is exactly the
// blog's stored owner id. Every resolution failure (invalid id, missing
// blog, store error) maps to common.ErrorUnauthorized so the check never
// reveals whether the blog exists.
func (s *BlogService) AuthorizeOwnerAction(ctx context.Context, blogID, requesterID string) error {
	blog, err := s.FindByID(ctx, blogID)
	if err != nil {
		return common.ErrorUnauthorized
	}

	if blog.OwnerID != requesterID {
		return common.ErrorUnauthorized
	}

	return nil
}

func (s *BlogService) List(ctx context.Context) ([]*models.Blog, error) {
	list, err := s.blogs.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "blog list failed", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Paginate returns the requested page plus the total blog count. Page and
// limit are validated as positive integers at the HTTP boundary.
func (s *BlogService) Paginate(ctx context.Context, page, limit int) (*Page, error) {
	offset := (page - 1) * limit

	data, total, err := s.blogs.ListPage(ctx, offset, limit)
	if err != nil {
		s.logger.Error(ctx, "blog pagination failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return &Page{Data: data, Total: total}, nil
}

// Search returns blogs whose title or content contains the keyword,
// case-insensitively.
func (s *BlogService) Search(ctx context.Context, keyword string) ([]*models.Blog, error) {
	list, err := s.blogs.Search(ctx, keyword)
	if err != nil {
		s.logger.Error(ctx, "blog search failed", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Filter returns blogs matching the given criteria (category and/or owner).
func (s *BlogService) Filter(ctx context.Context, f blogs.Filter) ([]*models.Blog, error) {
	list, err := s.blogs.Filter(ctx, f)
	if err != nil {
		s.logger.Error(ctx, "blog filter failed", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return list, nil
}
