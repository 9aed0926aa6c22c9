package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ykachan/blogapi/internal/server/repositories/blogs"
	"github.com/ykachan/blogapi/internal/server/services"
)

func (s *Server) createBlog(c *gin.Context) {
	var req createBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user := currentUserFromContext(c)

	blog, err := s.blogs.Create(c.Request.Context(), services.CreateBlogInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	}, user.ID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "blog created", "blog_id", blog.ID, "owner_id", user.ID)
	c.JSON(http.StatusCreated, toBlogResponse(blog))
}

func (s *Server) listBlogs(c *gin.Context) {
	list, err := s.blogs.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBlogResponses(list))
}

func (s *Server) paginateBlogs(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		badRequest(c, "page must be a number")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		badRequest(c, "limit must be a number")
		return
	}
	if page < 1 || limit < 1 {
		badRequest(c, "page and limit must be positive")
		return
	}

	result, err := s.blogs.Paginate(c.Request.Context(), page, limit)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, pageResponse{Data: toBlogResponses(result.Data), Total: result.Total})
}

func (s *Server) searchBlogs(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		badRequest(c, "keyword is required")
		return
	}

	list, err := s.blogs.Search(c.Request.Context(), keyword)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBlogResponses(list))
}

func (s *Server) filterBlogs(c *gin.Context) {
	list, err := s.blogs.Filter(c.Request.Context(), blogs.Filter{
		Category: c.Query("category"),
		OwnerID:  c.Query("owner"),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBlogResponses(list))
}

func (s *Server) findBlog(c *gin.Context) {
	blog, err := s.blogs.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBlogResponse(blog))
}

func (s *Server) updateBlog(c *gin.Context) {
	var req updateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	blog, err := s.blogs.Update(c.Request.Context(), c.Param("id"), req.toUpdate())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBlogResponse(blog))
}

func (s *Server) deleteBlog(c *gin.Context) {
	user := currentUserFromContext(c)

	if err := s.blogs.Remove(c.Request.Context(), c.Param("id"), user.ID); err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "blog deleted", "blog_id", c.Param("id"), "owner_id", user.ID)
	c.Status(http.StatusNoContent)
}
