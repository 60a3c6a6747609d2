package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/consultapp/internal/config"
	"github.com/BruksfildServices01/consultapp/internal/infra/cache"
	"github.com/BruksfildServices01/consultapp/internal/session"
)

const (
	ContextUserID      = "userID"
	ContextBusinessID  = "businessID"
	ContextUserRole    = "userRole"
	ContextTokenID     = "tokenID"
	ContextTokenExpiry = "tokenExpiry"
)

// RevokedKey is the cache key marking a logged-out token.
func RevokedKey(jti string) string {
	return "revoked:" + jti
}

func AuthMiddleware(cfg *config.Config, revoked cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		userID, ok1 := claims["sub"].(float64)
		businessID, ok2 := claims["businessId"].(float64)
		jti, ok3 := claims["jti"].(string)
		role, _ := claims["role"].(string)
		if !ok1 || !ok2 || !ok3 || jti == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		// --------------------------------------------------
		// Revogação (logout)
		// --------------------------------------------------
		if revoked != nil {
			isRevoked, err := revoked.Exists(c.Request.Context(), RevokedKey(jti))
			if err != nil {
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "token_check_failed"})
				return
			}
			if isRevoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token_revoked"})
				return
			}
		}

		var expiry time.Time
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			expiry = exp.Time
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextBusinessID, uint(businessID))
		c.Set(ContextUserRole, role)
		c.Set(ContextTokenID, jti)
		c.Set(ContextTokenExpiry, expiry)

		c.Next()
	}
}

// Actor reads the caller placed in the context by AuthMiddleware.
func Actor(c *gin.Context) session.Actor {
	return session.Actor{
		UserID:     c.GetUint(ContextUserID),
		BusinessID: c.GetUint(ContextBusinessID),
		Role:       c.GetString(ContextUserRole),
		TokenID:    c.GetString(ContextTokenID),
	}
}
