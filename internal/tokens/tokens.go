package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claim type tags discriminating access from refresh tokens.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Default lifetimes applied when the service is constructed with zero TTLs.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 24 * time.Hour
)

// ErrTokenInvalid is the single failure kind surfaced by Decode. Malformed,
// badly signed and expired tokens all collapse into it; callers must not be
// able to tell which check failed.
var ErrTokenInvalid = errors.New("invalid or expired token")

// Codec signs and verifies claim sets using a shared symmetric secret.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
}

// NewCodec creates a Codec for the given secret. Only HS256 is supported.
func NewCodec(secret, algorithm string) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if algorithm != "HS256" {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &Codec{secret: []byte(secret), method: jwt.SigningMethodHS256}, nil
}

// Encode signs the claim set and returns the compact token string.
func (c *Codec) Encode(claims jwt.MapClaims) (string, error) {
	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// Decode verifies the signature and expiry and returns the claim set.
// Every failure is reported as ErrTokenInvalid.
func (c *Codec) Decode(raw string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(raw,
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Service issues typed, expiring tokens. Stateless; issued tokens are never
// stored.
type Service struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService wraps the codec with issuance defaults. Zero TTLs fall back to
// 15 minutes (access) and 24 hours (refresh).
func NewService(codec *Codec, accessTTL, refreshTTL time.Duration) *Service {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Service{codec: codec, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (s *Service) AccessTTL() time.Duration  { return s.accessTTL }
func (s *Service) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccess returns a signed access token carrying the given payload.
func (s *Service) IssueAccess(payload map[string]interface{}) (string, error) {
	return s.issue(payload, TypeAccess, s.accessTTL)
}

// IssueRefresh returns a signed refresh token carrying the given payload.
func (s *Service) IssueRefresh(payload map[string]interface{}) (string, error) {
	return s.issue(payload, TypeRefresh, s.refreshTTL)
}

func (s *Service) issue(payload map[string]interface{}, typ string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	claims["type"] = typ
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()
	return s.codec.Encode(claims)
}
