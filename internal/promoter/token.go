package promoter

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "totem/pkg/domain-errors"
)

// Claims are the promoter session claims.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenIssuer mints and validates the promoter session tokens.
type TokenIssuer struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewTokenIssuer(signingKey string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		signingKey: []byte(signingKey),
		issuer:     "totem",
		ttl:        ttl,
	}
}

// Issue mints an HS256 token for a freshly authenticated promoter.
func (s *TokenIssuer) Issue() (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not sign promoter token")
	}
	return signed, nil
}

// Validate checks the signature, signing method and expiry.
func (s *TokenIssuer) Validate(tokenString string) error {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return nil
}
