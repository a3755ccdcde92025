package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/onelink/portfolio-api/internal/config"
	"github.com/onelink/portfolio-api/internal/server/middleware"
)

const tokenIssuer = "onelink-portfolio-api"

// Tokens are accepted up to this long after expiry to absorb clock skew
// between replicas.
const clockSkew = 5 * time.Second

var (
	ErrTokenMissing   = errors.New("token is empty")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("invalid token signature")
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenSubject   = errors.New("token subject is not a user id")
)

// Claims carries the registered claims of an access token. The user is
// identified by the subject; UserID is filled in after validation.
type Claims struct {
	UserID uuid.UUID `json:"-"`
	jwt.RegisteredClaims
}

func (c *Claims) GetUserID() uuid.UUID { return c.UserID }

// JWTService signs and verifies HS256 access tokens for logged in users.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
	now    func() time.Time
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	s := &JWTService{
		secret: []byte(cfg.Secret),
		ttl:    cfg.Expiration(),
		now:    time.Now,
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s
}

// GenerateToken issues a token for userID valid for the configured TTL.
func (s *JWTService) GenerateToken(userID uuid.UUID) (string, error) {
	issued := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   userID.String(),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(issued),
		NotBefore: jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(s.ttl)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature, issuer and lifetime, and resolves the
// subject into a user ID.
func (s *JWTService) ValidateToken(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrTokenMissing
	}

	claims := &Claims{}
	if _, err := s.parser.ParseWithClaims(raw, claims, s.signingKey); err != nil {
		return nil, classifyTokenError(err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrTokenSubject
	}
	claims.UserID = id
	return claims, nil
}

// AsTokenValidator exposes the service to the auth middleware.
func (s *JWTService) AsTokenValidator() middleware.TokenValidator {
	return tokenValidatorFunc(func(raw string) (middleware.UserIDGetter, error) {
		claims, err := s.ValidateToken(raw)
		if err != nil {
			return nil, err
		}
		return claims, nil
	})
}

type tokenValidatorFunc func(string) (middleware.UserIDGetter, error)

func (f tokenValidatorFunc) ValidateToken(raw string) (middleware.UserIDGetter, error) {
	return f(raw)
}

func (s *JWTService) signingKey(*jwt.Token) (any, error) {
	return s.secret, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrTokenSignature, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	return fmt.Errorf("invalid token: %w", err)
}
