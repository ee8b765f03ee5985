package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"helpexchange/model"
)

// Context keys set by AccessTokenMiddleware.
const (
	UserIDKey    = "userId"
	SessionIDKey = "sessionId"
	ClaimsKey    = "claims"
)

type TokenParser interface {
	ParseAccessToken(token string) (*model.AccessClaims, error)
}

func AccessTokenMiddleware(tokens TokenParser, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := tokens.ParseAccessToken(parts[1])
		if err != nil {
			logger.Debug().
				Err(err).
				Str("path", c.FullPath()).
				Msg("rejected access token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Set(SessionIDKey, claims.TokenID)
		c.Next()
	}
}

func UserID(c *gin.Context) string {
	return c.MustGet(UserIDKey).(string)
}

func SessionID(c *gin.Context) string {
	return c.MustGet(SessionIDKey).(string)
}
