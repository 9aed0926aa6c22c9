package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

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

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (name, email, password)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.Password).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, common.ErrorEmailAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// blogsExpr renders the uuid[] owner list as a comma-separated string; the
// stdlib sql package has no portable array scan.
const blogsExpr = `COALESCE(array_to_string(blogs, ','), '')`

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, name, email, password, ` + blogsExpr + `, created_at FROM users
		 WHERE email = $1
		 `
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, name, email, password, ` + blogsExpr + `, created_at FROM users
		 WHERE id = $1
		 `
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var blogList string

	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Password, &blogList, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if blogList != "" {
		user.BlogIDs = strings.Split(blogList, ",")
	}

	return user, nil
}

// AddBlogRef appends blogID to the user's owned-blog list in a single
// set-insert statement, so concurrent appends of different ids never clobber
// each other.
func (r *PostgresRepository) AddBlogRef(ctx context.Context, userID string, blogID string) error {
	query :=
		`UPDATE users SET blogs = array_append(blogs, $2::uuid)
		 WHERE id = $1
		 `
	return r.execRef(ctx, query, userID, blogID)
}

// RemoveBlogRef drops blogID from the user's owned-blog list (set-remove).
func (r *PostgresRepository) RemoveBlogRef(ctx context.Context, userID string, blogID string) error {
	query :=
		`UPDATE users SET blogs = array_remove(blogs, $2::uuid)
		 WHERE id = $1
		 `
	return r.execRef(ctx, query, userID, blogID)
}

func (r *PostgresRepository) execRef(ctx context.Context, query, userID, blogID string) error {
	res, err := r.db.ExecContext(ctx, query, userID, blogID)
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
