package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jyotir-aditya/fullstackAssignment/internal/application"
	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/entity"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/response"
)

const (
	ctxUser      = "user"
	ctxUserID    = "userID"
	ctxUserEmail = "userEmail"
)

// TokenResolver turns a bearer token into the user it was issued for.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*entity.User, error)
}

// bearerToken returns the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *gin.Context) (string, bool) {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Auth requires a valid bearer token naming an existing user.
// It sets user, userID and userEmail in the Gin context on success.
func Auth(users TokenResolver, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		u, err := users.ResolveToken(c.Request.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, application.ErrUnauthorized):
			response.Error(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		case errors.Is(err, application.ErrUserNotFound):
			response.Error(c, http.StatusUnauthorized, "User no longer exists", nil)
			return
		default:
			if logger != nil {
				logger.WithError(err).Error("resolve access token failed")
			}
			response.Error(c, http.StatusInternalServerError, "failed to authenticate", nil)
			return
		}

		c.Set(ctxUser, u)
		c.Set(ctxUserID, u.ID)
		c.Set(ctxUserEmail, u.Email)
		c.Next()
	}
}

// CurrentUser returns the user attached by Auth.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}
