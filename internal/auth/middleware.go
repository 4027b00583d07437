package auth

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

const (
	ctxFirebaseUID   = "firebase_uid"
	ctxVerifiedEmail = "verified_email"
	ctxIsAdmin       = "is_admin"
)

// Middleware validates Firebase ID tokens (issued by the magic-link sign-in)
// and stores the verified identity in the request context. The email is
// recorded only when the token says it has been verified; handlers trust
// nothing typed into a form.
func Middleware(authClient *auth.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token"})
			c.Abort()
			return
		}

		decodedToken, err := authClient.VerifyIDToken(context.Background(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(ctxFirebaseUID, decodedToken.UID)

		if email, ok := decodedToken.Claims["email"].(string); ok {
			if verified, _ := decodedToken.Claims["email_verified"].(bool); verified {
				c.Set(ctxVerifiedEmail, email)
			}
		}

		// Admin is a server-verified custom claim on the token, never a
		// client-held flag.
		if admin, _ := decodedToken.Claims["admin"].(bool); admin {
			c.Set(ctxIsAdmin, true)
		}

		c.Next()
	}
}

// RequireAdmin rejects requests whose token lacks the admin claim. Must run
// after Middleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxIsAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
