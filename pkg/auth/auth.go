package auth

import (
	"context"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLibrarian Role = "librarian"
	RoleMember    Role = "member"
)

// Principal is the authenticated identity extracted from a bearer token.
type Principal struct {
	UserID int
	Role   Role
}

type Claims struct {
	Profile struct {
		UserID int  `json:"user_id"`
		Role   Role `json:"role"`
	} `json:"profile"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret string        `envconfig:"JWT_SECRET" default:"library_secret"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"168h"`
}

var (
	ErrUnauthenticated = errors.New("no credentials")
	ErrTokenExpired    = errors.New("token expired")
	ErrInvalidToken    = errors.New("invalid token")
)

// IssueToken signs an HS256 token for the principal.
func IssueToken(cfg Config, p Principal) (string, time.Time, error) {
	expiresAt := time.Now().Add(cfg.TTL)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	claims.Profile.UserID = p.UserID
	claims.Profile.Role = p.Role

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken verifies the token and yields the principal.
func ParseToken(cfg Config, tokenStr string) (Principal, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, ErrTokenExpired
		}
		return Principal{}, ErrInvalidToken
	}
	if !token.Valid {
		return Principal{}, ErrInvalidToken
	}
	return Principal{
		UserID: claims.Profile.UserID,
		Role:   claims.Profile.Role,
	}, nil
}

type contextKey int

const principalKey contextKey = iota + 1

func SetAuthContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func FromContext(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey).(Principal)
	if !ok {
		return Principal{}, ErrUnauthenticated
	}
	return p, nil
}
