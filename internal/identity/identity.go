// Package identity turns an authenticated principal into the IdentityContext
// carried through the chat pipeline, and verifies the bearer tokens that
// produce principals in the first place.
package identity

import (
	"errors"

	"github.com/hrdesk/backend/internal/models"
)

const (
	ClaimEmployeeID = "employee_id"
	ClaimSubject    = "sub"
	ClaimEmail      = "email"
	ClaimCountry    = "country"

	UnknownEmployee = "Unknown"
	DefaultEmail    = "unknown@company.com"
	DefaultCountry  = "US"
)

var ErrAuthenticationMissing = errors.New("authentication missing")

// Extract builds the IdentityContext for one request. Missing optional claims
// fall back to defaults; only an absent or unauthenticated principal fails.
func Extract(p *models.Principal, correlationID string) (models.IdentityContext, error) {
	if p == nil || !p.Authenticated {
		return models.IdentityContext{}, ErrAuthenticationMissing
	}

	employeeID := firstNonEmpty(p.Claim(ClaimEmployeeID), p.Claim(ClaimSubject), UnknownEmployee)
	email := firstNonEmpty(p.Claim(ClaimEmail), DefaultEmail)
	country := firstNonEmpty(p.Claim(ClaimCountry), DefaultCountry)

	return models.IdentityContext{
		EmployeeID:    employeeID,
		Email:         email,
		Roles:         uniqueRoles(p.Roles),
		Country:       country,
		CorrelationID: correlationID,
	}, nil
}

// ActorID names the caller for audit purposes without requiring a full
// IdentityContext. Unauthenticated callers are "Anonymous".
func ActorID(p *models.Principal) string {
	if p == nil || !p.Authenticated {
		return "Anonymous"
	}
	return firstNonEmpty(p.Claim(ClaimEmployeeID), p.Claim(ClaimSubject), UnknownEmployee)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func uniqueRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	seen := map[string]struct{}{}
	for _, r := range roles {
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
