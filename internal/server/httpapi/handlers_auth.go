package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ykachan/blogapi/internal/server/services"
)

func (s *Server) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !isStrongPassword(req.Password) {
		badRequest(c, "password is weak: need at least 2 lowercase, 1 uppercase, 2 digits and 1 symbol")
		return
	}

	token, err := s.auth.SignUp(c.Request.Context(), services.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "user registered", "email", req.Email)
	c.JSON(http.StatusCreated, tokenResponse{AccessToken: token})
}

func (s *Server) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	token, err := s.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: token})
}

func (s *Server) whoAmI(c *gin.Context) {
	// RequireIdentity guarantees a non-nil user here.
	user := currentUserFromContext(c)
	c.JSON(http.StatusOK, toUserResponse(user))
}
