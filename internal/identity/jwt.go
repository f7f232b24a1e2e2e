package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hrdesk/backend/internal/models"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenClaims is the access token payload issued by the identity provider.
type TokenClaims struct {
	EmployeeID string   `json:"employee_id,omitempty"`
	Email      string   `json:"email,omitempty"`
	Country    string   `json:"country,omitempty"`
	Roles      []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenService verifies HS256 bearer tokens. Issue exists for local
// development and tests; production tokens come from the identity provider.
type TokenService struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewTokenService(signingKey, issuer, audience string) *TokenService {
	return &TokenService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

func (s *TokenService) Issue(claims TokenClaims, expiresIn time.Duration) (string, error) {
	now := time.Now()
	if claims.Subject == "" {
		claims.Subject = claims.EmployeeID
	}
	claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(expiresIn))
	claims.RegisteredClaims.Issuer = s.issuer
	if s.audience != "" {
		claims.RegisteredClaims.Audience = []string{s.audience}
	}
	claims.RegisteredClaims.ID = uuid.NewString()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates the token and converts its claims into a Principal.
func (s *TokenService) Verify(tokenString string) (*models.Principal, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	values := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			values[k] = v
		}
	}
	set(ClaimEmployeeID, claims.EmployeeID)
	set(ClaimSubject, claims.Subject)
	set(ClaimEmail, claims.Email)
	set(ClaimCountry, claims.Country)

	return &models.Principal{
		Authenticated: true,
		Claims:        values,
		Roles:         claims.Roles,
	}, nil
}
