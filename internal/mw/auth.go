package mw

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDKey is the context key under which the authenticated user's id is
// stored for downstream handlers.
const UserIDKey = "user_id"

// Auth validates the bearer token issued by the external identity provider
// and injects the numeric user id into the request context. Core operations
// never read ambient state; handlers pass the id on explicitly.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "missing Authorization header")
			return
		}
		tokenStr := header
		if after, ok := strings.CutPrefix(header, "Bearer "); ok {
			tokenStr = after
		}
		if tokenStr == "" {
			unauthorized(c, "empty bearer token")
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "invalid token")
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			unauthorized(c, "token has no subject")
			return
		}
		userID, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			unauthorized(c, "token subject is not a user id")
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
