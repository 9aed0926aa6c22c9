// Package repomanager wires repositories to a shared database handle.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/ykachan/blogapi/internal/server/repositories/blogs"
	"github.com/ykachan/blogapi/internal/server/repositories/users"
)

type RepositoryManager interface {
	Conn() *sql.DB
	Users() users.Repository
	Blogs() blogs.Repository
	RunMigrations(ctx context.Context) error
}
