package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ctxUserID = "user_id"

// BearerIdentity resolves the caller from "Authorization: <scheme> <token>".
// With an empty secret the token itself is the user id. With a secret the
// token must be an HS256 JWT and its subject is the user id. The middleware
// never rejects a request; routes that need a caller check for it.
func BearerIdentity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.Fields(c.GetHeader("Authorization"))
		if len(parts) < 2 {
			c.Next()
			return
		}
		token := parts[1]

		if secret == "" {
			c.Set(ctxUserID, token)
			c.Next()
			return
		}

		claims := &jwt.RegisteredClaims{}
		tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err == nil && tok.Valid && claims.Subject != "" {
			c.Set(ctxUserID, claims.Subject)
		}
		c.Next()
	}
}

// UserID returns the caller resolved by BearerIdentity, or nil.
func UserID(c *gin.Context) *string {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}
