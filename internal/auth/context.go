package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// VerifiedEmail returns the email the identity provider has verified for
// this request, or "" when verification has not happened.
func VerifiedEmail(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(ctxVerifiedEmail))
}

// UserFirebaseUID extracts the Firebase UID set by Middleware.
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(ctxFirebaseUID))
}

// SetVerifiedEmail exists for handler tests that bypass token verification.
func SetVerifiedEmail(c *gin.Context, email string) {
	c.Set(ctxVerifiedEmail, email)
}
