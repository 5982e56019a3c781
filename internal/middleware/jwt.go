package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-feedback-api/internal/models"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
	"github.com/noah-isme/course-feedback-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// Headers carrying the maintenance secrets.
const (
	HeaderBackdoorKey = "Backdoor-Key"
	HeaderCSRFKey     = "CSRF-Key"
)

// TokenValidator parses identity tokens.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// BackdoorKeys are the static secrets admitting maintenance requests. Empty keys disable the backdoor.
type BackdoorKeys struct {
	Key     string
	CSRFKey string
}

func (k BackdoorKeys) matches(key, csrf string) bool {
	if k.Key == "" || k.CSRFKey == "" {
		return false
	}
	keyOK := subtle.ConstantTimeCompare([]byte(key), []byte(k.Key)) == 1
	csrfOK := subtle.ConstantTimeCompare([]byte(csrf), []byte(k.CSRFKey)) == 1
	return keyOK && csrfOK
}

// Authenticate attaches the caller's claims without requiring them; the action layer decides
// whether anonymous access is allowed. Valid backdoor keys yield administrator claims, a
// malformed or invalid bearer token is rejected.
func Authenticate(tokens TokenValidator, keys BackdoorKeys) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(HeaderBackdoorKey); key != "" {
			if !keys.matches(key, c.GetHeader(HeaderCSRFKey)) {
				response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid backdoor keys"))
				c.Abort()
				return
			}
			c.Set(ContextUserKey, &models.JWTClaims{Role: models.RoleAdmin, Backdoor: true})
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the claims attached by Authenticate, if any.
func ClaimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
