// Package services contains server-side business logic. This file implements
// AuthService, which turns plaintext passwords into stored records, verifies
// credentials, and issues/verifies the signed session tokens.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/ykachan/blogapi/internal/common"
	"github.com/ykachan/blogapi/internal/cryptox"
	"github.com/ykachan/blogapi/internal/logging"
	"github.com/ykachan/blogapi/internal/server/auth"
	"github.com/ykachan/blogapi/internal/server/config"
	"github.com/ykachan/blogapi/internal/server/models"
	"github.com/ykachan/blogapi/internal/server/repositories/users"
)

// SignUpInput carries the fields of a registration request. Validation of
// lengths and password strength happens at the HTTP boundary.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService provides authentication-related operations:
// - SignUp: create identities and mint a token
// - SignIn: verify credentials and mint a token
// - CurrentUser: resolve a bearer token to an identity, or to anonymous
type AuthService struct {
	users                 users.Repository
	logger                logging.Logger
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService using the users repository and
// server config. The signing secret and token lifetime are fixed at
// construction; nothing is read from the environment at call sites.
func NewAuthService(repo users.Repository, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		users:                 repo,
		logger:                logger.With("module", "auth_service"),
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// SignUp registers a new identity and returns a freshly issued token.
// An email already present (case-sensitive match) yields
// common.ErrorEmailAlreadyExists, whether detected by the lookup or as a
// duplicate-key violation at the storage layer; any other creation failure
// propagates unchanged.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (string, error) {
	_, err := s.users.GetByEmail(ctx, in.Email)
	if err == nil {
		return "", common.ErrorEmailAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "email lookup failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	record, err := cryptox.HashPassword(in.Password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	user, err := s.users.Create(ctx, &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: record,
	})
	if err != nil {
		return "", err
	}

	return s.IssueToken(user)
}

// SignIn verifies the credentials and returns a token. An unknown email
// yields common.ErrorInvalidCredentials; a known email with a password that
// does not verify yields common.ErrorUnauthorized.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "email lookup failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	if !cryptox.VerifyPassword(password, user.Password) {
		return "", common.ErrorUnauthorized
	}

	return s.IssueToken(user)
}

// IssueToken signs a token for the identity with the configured lifetime.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token, err := auth.GenerateToken(user.Email, user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// CurrentUser resolves a bearer token to the identity it names. An absent,
// malformed, or expired token, a payload without an email, and an unknown
// email all resolve uniformly to nil (anonymous), never to a request
// failure.
func (s *AuthService) CurrentUser(ctx context.Context, tokenString string) *models.User {
	if tokenString == "" {
		return nil
	}

	claims, err := auth.ParseToken(tokenString, s.jwtSecret)
	if err != nil {
		s.logger.Debug(ctx, "token verification failed", "error", err.Error())
		return nil
	}
	if claims.Email == "" {
		s.logger.Warn(ctx, "token payload missing email")
		return nil
	}

	user, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "email lookup failed", "error", err.Error())
		}
		return nil
	}

	return user
}
