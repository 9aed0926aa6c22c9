package blogs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ykachan/blogapi/internal/common"
	"github.com/ykachan/blogapi/internal/dbx"
	"github.com/ykachan/blogapi/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectWithOwner joins the owner so every read resolves the owner reference
// to a summary (id, name, email).
const selectWithOwner = `
	SELECT b.id, b.title, b.content, b.category, b.owner_id, b.created_at,
	       u.name, u.email
	FROM blogs b
	JOIN users u ON u.id = b.owner_id
`

func (r *PostgresRepository) Create(ctx context.Context, blog *models.Blog) (*models.Blog, error) {

	query :=
		`INSERT INTO blogs (title, content, category, owner_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		blog.Title, blog.Content, blog.Category, blog.OwnerID).Scan(&blog.ID, &blog.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return blog, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	row := r.db.QueryRowContext(ctx, selectWithOwner+` WHERE b.id = $1`, id)

	blog, err := scanBlog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return blog, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd Update) (*models.Blog, error) {
	query :=
		`UPDATE blogs SET
		   title    = COALESCE($2, title),
		   content  = COALESCE($3, content),
		   category = COALESCE($4, category)
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, upd.Title, upd.Content, upd.Category)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return nil, common.ErrorNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Blog, error) {
	return r.queryBlogs(ctx, selectWithOwner+` ORDER BY b.created_at`)
}

func (r *PostgresRepository) ListPage(ctx context.Context, offset, limit int) ([]*models.Blog, int64, error) {
	list, err := r.queryBlogs(ctx,
		selectWithOwner+` ORDER BY b.created_at OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blogs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return list, total, nil
}

func (r *PostgresRepository) Search(ctx context.Context, keyword string) ([]*models.Blog, error) {
	query := selectWithOwner + `
		 WHERE b.title ILIKE '%' || $1 || '%' OR b.content ILIKE '%' || $1 || '%'
		 ORDER BY b.created_at`
	return r.queryBlogs(ctx, query, keyword)
}

func (r *PostgresRepository) Filter(ctx context.Context, f Filter) ([]*models.Blog, error) {
	query := selectWithOwner + ` WHERE 1=1`
	args := []any{}

	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(" AND b.category = $%d", len(args))
	}
	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		query += fmt.Sprintf(" AND b.owner_id = $%d", len(args))
	}

	return r.queryBlogs(ctx, query+` ORDER BY b.created_at`, args...)
}

func (r *PostgresRepository) queryBlogs(ctx context.Context, query string, args ...any) ([]*models.Blog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	list := []*models.Blog{}
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return list, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(row rowScanner) (*models.Blog, error) {
	blog := &models.Blog{Owner: &models.OwnerSummary{}}

	err := row.Scan(&blog.ID, &blog.Title, &blog.Content, &blog.Category,
		&blog.OwnerID, &blog.CreatedAt, &blog.Owner.Name, &blog.Owner.Email)
	if err != nil {
		return nil, err
	}

	blog.Owner.ID = blog.OwnerID
	return blog, nil
}
