package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookieName is the cookie carrying the session token. Existing
// clients look for this name.
const SessionCookieName = "userId"

// Session is a resolved, unexpired, unrevoked session.
type Session struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

// SessionService issues and resolves signed session tokens. Tokens are HS256
// JWTs whose subject is the user id; revocation is tracked by token id.
type SessionService struct {
	secret  []byte
	ttl     time.Duration
	revoked RevocationStore
	now     func() time.Time
}

func NewSessionService(secret string, ttl time.Duration, revoked RevocationStore) *SessionService {
	return &SessionService{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: revoked,
		now:     time.Now,
	}
}

// TTL is the lifetime of newly issued tokens.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a token for userID.
func (s *SessionService) Issue(userID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Resolve validates a raw token. Missing, malformed, expired and revoked
// tokens all yield ErrUnauthorized; only a failing revocation lookup yields a
// different error.
func (s *SessionService) Resolve(ctx context.Context, raw string) (*Session, error) {
	if raw == "" {
		return nil, newError(ErrUnauthorized, "Unauthorized")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.Subject == "" || claims.ID == "" {
		return nil, newError(ErrUnauthorized, "Unauthorized")
	}

	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, newError(ErrUnauthorized, "Unauthorized")
		}
	}

	return &Session{
		UserID:    claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke invalidates the presented token for the rest of its lifetime. A
// token that no longer resolves needs no revocation.
func (s *SessionService) Revoke(ctx context.Context, raw string) error {
	session, err := s.Resolve(ctx, raw)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil
		}
		return err
	}
	if s.revoked == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, session.TokenID, session.ExpiresAt.Sub(s.now()))
}
