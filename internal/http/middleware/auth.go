package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hrdesk/backend/internal/identity"
	"github.com/hrdesk/backend/internal/models"
)

const principalKey = "principal"

// TokenVerifier turns a bearer token into a principal.
type TokenVerifier interface {
	Verify(token string) (*models.Principal, error)
}

// Authenticate attaches a principal to every request. A missing or invalid
// token yields an unauthenticated principal; rejecting the request is left to
// the handler so the audit envelope still records it.
func Authenticate(verifier TokenVerifier, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := &models.Principal{}
		if token := bearerToken(c); token != "" && verifier != nil {
			p, err := verifier.Verify(token)
			if err != nil {
				logger.Debug().Err(err).Str("correlation_id", CorrelationID(c)).Msg("bearer token rejected")
			} else {
				principal = p
			}
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// PrincipalFrom returns the principal set by Authenticate, or nil.
func PrincipalFrom(c *gin.Context) *models.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*models.Principal)
	return p
}

func ActorID(c *gin.Context) string {
	return identity.ActorID(PrincipalFrom(c))
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
