package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"facility-security-api/internal/model"
)

// TokenSigner mints and verifies the short-lived access tokens. Verification
// is purely cryptographic plus expiry; claims are never checked against
// persistent state, so a leaked access token lives until its natural expiry.
type TokenSigner struct {
	secret    []byte
	accessTTL time.Duration
}

func NewTokenSigner(secret string, accessTTL time.Duration) *TokenSigner {
	return &TokenSigner{secret: []byte(secret), accessTTL: accessTTL}
}

func (s *TokenSigner) Issue(subject string, role string) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.accessTTL).Unix(),
	})
	return token.SignedString(s.secret)
}

// Verify checks signature integrity first, then expiry, and reports the two
// failures distinctly so callers can differentiate in principle.
func (s *TokenSigner) Verify(signed string) (model.AccessClaims, error) {
	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.AccessClaims{}, model.ErrTokenExpired
		}
		return model.AccessClaims{}, model.ErrInvalidToken
	}
	if !parsed.Valid {
		return model.AccessClaims{}, model.ErrInvalidToken
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return model.AccessClaims{}, model.ErrInvalidToken
	}

	claims := model.AccessClaims{}
	claims.Username, _ = claimsMap["sub"].(string)
	claims.Role, _ = claimsMap["role"].(string)
	if iat, err := claimsMap.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := claimsMap.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	if claims.Username == "" {
		return model.AccessClaims{}, model.ErrInvalidToken
	}

	return claims, nil
}
