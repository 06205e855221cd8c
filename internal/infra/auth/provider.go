package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrMissingSecret = errors.New("session secret is not configured")

// SessionProvider issues and verifies HS256 tokens whose subject is the onboarding session namespace.
type SessionProvider struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type Identity struct {
	SessionID uuid.UUID
	ExpiresAt time.Time
}

func NewSessionProvider(cfg *SessionConfig) (*SessionProvider, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	return &SessionProvider{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

func (p *SessionProvider) Issue() (string, *Identity, error) {
	id := uuid.New()
	now := p.now()
	expires := now.Add(p.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   id.String(),
		Issuer:    p.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", nil, fmt.Errorf("error signing session token, %v", err)
	}

	return token, &Identity{SessionID: id, ExpiresAt: expires}, nil
}

func (p *SessionProvider) GetIdentity(tokenString string) (*Identity, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, fmt.Errorf("identity can't be retrieved, %w", err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("identity can't be retrieved, invalid subject, %v", err)
	}

	return &Identity{SessionID: id, ExpiresAt: claims.ExpiresAt.Time}, nil
}
