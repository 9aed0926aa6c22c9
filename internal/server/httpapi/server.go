// Package httpapi exposes the blog API over HTTP. Routing, request binding,
// and response shaping live here; all business rules stay in the services.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ykachan/blogapi/internal/common"
	"github.com/ykachan/blogapi/internal/logging"
	"github.com/ykachan/blogapi/internal/server/services"
)

type Server struct {
	address string
	auth    *services.AuthService
	blogs   *services.BlogService
	logger  logging.Logger
}

func NewServer(address string, logger logging.Logger, as *services.AuthService, bs *services.BlogService) *Server {
	return &Server{
		address: address,
		auth:    as,
		blogs:   bs,
		logger:  logger.With("module", "http_server"),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.ResolveIdentity())

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", s.signUp)
		authGroup.POST("/signin", s.signIn)
		authGroup.GET("/whoami", s.RequireIdentity(), s.whoAmI)
	}

	blogGroup := api.Group("/blogs")
	{
		blogGroup.GET("", s.listBlogs)
		blogGroup.GET("/paginated", s.paginateBlogs)
		blogGroup.GET("/search", s.searchBlogs)
		blogGroup.GET("/filter", s.filterBlogs)
		blogGroup.GET("/:id", s.findBlog)
		blogGroup.POST("", s.RequireIdentity(), s.createBlog)
		blogGroup.PATCH("/:id", s.RequireIdentity(), s.RequireBlogOwner(), s.updateBlog)
		blogGroup.DELETE("/:id", s.RequireIdentity(), s.RequireBlogOwner(), s.deleteBlog)
	}

	return router
}

// Run serves the API until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		_ = srv.Shutdown(context.Background())
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// writeError maps service errors onto HTTP responses. Internal causes are
// logged but never exposed verbatim to the caller.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ID", "message": "invalid blog id"})
	case errors.Is(err, common.ErrorEmailAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"code": "EMAIL_IN_USE", "message": "email already in use"})
	case errors.Is(err, common.ErrorInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_CREDENTIALS", "message": "invalid credentials"})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "message": "invalid credentials"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "message": "blog not found"})
	default:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "message": "internal server error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_INPUT", "message": message})
}
