package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MaxNameLen bounds display names, counted in runes.
const MaxNameLen = 20

var ErrBadName = errors.New("auth: display name must be 1-20 characters without spaces")

// Claims carries the display name a player chose for the session. Nothing
// about the name is verified beyond its shape.
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret []byte, ttl time.Duration) *Service {
	return &Service{secret: secret, ttl: ttl, now: time.Now}
}

// NormalizeName trims name and checks it can be used as a seat label and a
// command argument.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := len([]rune(name))
	if n == 0 || n > MaxNameLen || strings.ContainsAny(name, " \t\r\n") {
		return "", ErrBadName
	}
	return name, nil
}

func (s *Service) Sign(name string) (string, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return "", err
	}
	now := s.now()
	claims := Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   name,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

func (s *Service) Verify(token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || claims.Name == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
