package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careercompass/careercompass/internal/domain/user"
	"github.com/careercompass/careercompass/pkg/apperror"
	"github.com/careercompass/careercompass/pkg/auth"
	"github.com/careercompass/careercompass/pkg/logger"
	"go.uber.org/zap"
)

const (
	GinContextKeyUserID = "userID"
	GinContextKeyRole   = "userRole"
)

// AuthMiddleware validates the Bearer token and stores the caller's id and
// role in the request context, so handlers never reach back into any session
// store.
func AuthMiddleware(jwtSvc *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		role, err := user.ParseRole(claims.Role)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown role claim"})
			return
		}

		c.Set(GinContextKeyUserID, claims.UserID)
		c.Set(GinContextKeyRole, role)

		c.Next()
	}
}

// RequireRole gates a route group on one role. Mismatched callers get a 403
// carrying the dashboard path for their own role, which the frontend uses as
// a redirect target.
func RequireRole(required user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRoleFromGinContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "role information not found"})
			return
		}
		if role != required {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "insufficient role",
				"redirect": "/" + string(role) + "/dashboard",
			})
			return
		}
		c.Next()
	}
}

// ErrorMiddleware converts errors attached by handlers into the shared JSON
// error shape, logging internals server-side only.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		if appErr, ok := err.(*apperror.AppError); ok {
			status := apperror.ToHTTPStatus(appErr)
			if status >= http.StatusInternalServerError {
				log.Error("Request failed", appErr, zap.String("path", c.Request.URL.Path))
			}
			c.JSON(status, appErr.ToJSON())
			return
		}

		log.Error("Unhandled request error", err, zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func GetUserIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := c.Get(GinContextKeyUserID)
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return userID, true
}

func GetRoleFromGinContext(c *gin.Context) (user.Role, bool) {
	raw, ok := c.Get(GinContextKeyRole)
	if !ok {
		return "", false
	}
	role, ok := raw.(user.Role)
	if !ok {
		return "", false
	}
	return role, true
}
