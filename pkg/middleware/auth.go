package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/storage"
	"github.com/classpoint/school-backend/pkg/config"
)

// Auth validates Bearer JWTs, loads the account and sets the actor in
// the request context. The user document is re-read on every request
// so suspended or archived accounts lose access immediately.
func Auth(cfg *config.Config, store storage.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(401, gin.H{"success": false, "message": "Authorization header required"})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(401, gin.H{"success": false, "message": "Invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.JSON(401, gin.H{"success": false, "message": "Token required"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWT.Secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(401, gin.H{"success": false, "message": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(401, gin.H{"success": false, "message": "Invalid token claims"})
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok {
			c.JSON(401, gin.H{"success": false, "message": "Invalid user ID in token"})
			c.Abort()
			return
		}

		user, err := store.Users().GetByID(c.Request.Context(), userID)
		if err != nil {
			if err == storage.ErrNotFound {
				c.JSON(401, gin.H{"success": false, "message": "Account no longer exists"})
			} else {
				logger.Error("Failed to load user from token",
					zap.String("user_id", userID),
					zap.Error(err))
				c.JSON(500, gin.H{"success": false, "message": "Internal server error"})
			}
			c.Abort()
			return
		}

		if !user.IsActive() {
			c.JSON(403, gin.H{"success": false, "message": "Account is not active"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("actor", user)
		c.Next()
	}
}

// RequireRoles allows only actors whose role is in the given set.
// Must run after Auth.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := Actor(c)
		if !ok {
			c.JSON(401, gin.H{"success": false, "message": "Not authenticated"})
			c.Abort()
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(403, gin.H{"success": false, "message": "Insufficient permissions"})
		c.Abort()
	}
}

// Actor returns the authenticated user set by Auth.
func Actor(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get("actor")
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}

// Logger returns a gin middleware for request logging
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
