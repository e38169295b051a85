package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SigningMethod defines a public type used by goThrottle APIs.
//
// SigningMethod instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SigningMethod string

const (
	// MethodHS512 is an exported constant or variable used by the rate limiting engine.
	MethodHS512 SigningMethod = "hs512"
	// MethodHS256 is an exported constant or variable used by the rate limiting engine.
	MethodHS256 SigningMethod = "hs256"
)

// ErrTokenInvalid is the single opaque verification error. Signature, algorithm,
// time-window, and structural failures are deliberately indistinguishable.
var ErrTokenInvalid = errors.New("invalid token")

// Config defines a public type used by goThrottle APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	SigningMethod SigningMethod
	Secret        []byte
	Leeway        time.Duration
}

// Claims defines a public type used by goThrottle APIs.
//
// Claims instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Claims struct {
	UserID string `json:"user_id"`
	Roles  string `json:"user_roles"`

	// RateLimit is the caller's request ceiling per window (-1: unlimited).
	RateLimit int `json:"user_rate_limit"`

	jwt.RegisteredClaims
}

// Manager defines a public type used by goThrottle APIs.
//
// Manager instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Manager struct {
	config Config
}

// NewManager describes the newmanager operation and its observable behavior.
//
// NewManager may return an error when input validation, dependency calls, or security checks fail.
// NewManager does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.SigningMethod == "" {
		cfg.SigningMethod = MethodHS512
	}
	switch cfg.SigningMethod {
	case MethodHS256, MethodHS512:
	default:
		return nil, errors.New("unsupported signing method")
	}
	if len(cfg.Secret) == 0 {
		return nil, errors.New("hmac signing requires a secret")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	return &Manager{config: cfg}, nil
}

// Issue signs a token for userID carrying the given rate limit and role string.
// The token is valid immediately (nbf = iat = now) and expires lifetimeHours
// from now; the expiry is also returned as epoch seconds for the caller.
func (m *Manager) Issue(userID string, rateLimit int, roles string, lifetimeHours int64) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(lifetimeHours) * time.Hour)

	claims := Claims{
		UserID:    userID,
		Roles:     roles,
		RateLimit: rateLimit,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(m.method(), claims).SignedString(m.config.Secret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}

	return token, expiresAt.Unix(), nil
}

// Parse verifies a token and returns its claims. Any failure — bad signature,
// wrong algorithm, expired, not yet valid, malformed — returns [ErrTokenInvalid]
// and never a partially populated claim set.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method().Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.method().Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return m.config.Secret, nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

func (m *Manager) method() *jwt.SigningMethodHMAC {
	if m.config.SigningMethod == MethodHS256 {
		return jwt.SigningMethodHS256
	}
	return jwt.SigningMethodHS512
}
