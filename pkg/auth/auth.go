package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Config struct {
	Secret string        `yaml:"secret" envconfig:"JWT_SECRET" required:"true"`
	TTL    time.Duration `yaml:"ttl" envconfig:"JWT_TTL" default:"720h"`
	Issuer string        `yaml:"issuer" envconfig:"JWT_ISSUER" default:"book-exchange"`
}

var (
	ErrNoIdentity   = errors.New("no identity in context")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Profile is the caller identity carried by tokens and request contexts.
type Profile struct {
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
}

type Claims struct {
	Profile Profile `json:"profile"`
	jwt.RegisteredClaims
}

func NewToken(cfg Config, p Profile, now time.Time) (token string, expiresAt time.Time, err error) {
	expiresAt = now.Add(cfg.TTL)
	claims := &Claims{
		Profile: p,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID.String(),
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

func ParseToken(cfg Config, tokenStr string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Profile.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type ctxKey int

const profileKey ctxKey = iota + 1

func SetAuthContext(ctx context.Context, p Profile) context.Context {
	return context.WithValue(ctx, profileKey, p)
}

func GetProfile(ctx context.Context) (Profile, error) {
	p, ok := ctx.Value(profileKey).(Profile)
	if !ok || p.UserID == uuid.Nil {
		return Profile{}, ErrNoIdentity
	}
	return p, nil
}

func GetUserID(ctx context.Context) (uuid.UUID, error) {
	p, err := GetProfile(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return p.UserID, nil
}
