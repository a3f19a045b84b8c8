package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortlink/internal/models"
	"shortlink/internal/service"
)

const userContextKey = "currentUser"

// Authenticate resolves the caller's identity from a Bearer token and
// attaches it to the request context. Requests without a token, or with
// a token that fails validation, proceed as anonymous. Rejection is
// the job of the per-group RequireUser gate, not of this middleware.
func Authenticate(tokens service.TokenService, users service.UserService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		if !tokens.Validate(token) {
			logger.Debug("Rejected bearer token", zap.String("path", c.Request.URL.Path))
			c.Next()
			return
		}

		username, err := tokens.Subject(token)
		if err != nil {
			c.Next()
			return
		}

		user, err := users.FindByUsername(c.Request.Context(), username)
		if err != nil {
			// Token subject no longer resolves to a user; treat as anonymous.
			logger.Warn("Token subject not found", zap.String("username", username))
			c.Next()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireUser aborts with 401 unless an authenticated identity carrying
// the USER role was attached by Authenticate.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authentication required",
			})
			return
		}

		if user.Role != models.RoleUser && user.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Insufficient role",
			})
			return
		}

		c.Next()
	}
}

// CurrentUser returns the identity attached to the request, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
