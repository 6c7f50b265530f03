// Package middleware holds the gin middleware shared by the auth and
// logbook servers.
package middleware

import (
	"errors"
	"net/http"

	"github.com/Sreehari-M-dev/LOGI-tests/database/model"
	"github.com/Sreehari-M-dev/LOGI-tests/util/token"
	"github.com/Sreehari-M-dev/LOGI-tests/web/entity"

	"github.com/gin-gonic/gin"
)

const (
	claimsKey = "claims"
	roleKey   = "role"
)

// BearerAuth rejects requests without a valid bearer token and stores the
// token claims in the context.
func BearerAuth(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := token.FromHeader(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.Msg{Error: "No token provided"})
			return
		}
		claims, err := issuer.Verify(raw)
		if err != nil {
			msg := "Invalid or expired token"
			if errors.Is(err, token.ErrMissing) {
				msg = "No token provided"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.Msg{Error: msg})
			return
		}
		c.Set(claimsKey, claims)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// GetClaims returns the claims stored by BearerAuth, or nil.
func GetClaims(c *gin.Context) *token.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*token.Claims)
	return claims
}

// IsStudent reports whether the caller holds a student token.
func IsStudent(c *gin.Context) bool {
	return c.GetString(roleKey) == string(model.RoleStudent)
}
