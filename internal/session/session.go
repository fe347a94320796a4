// Package session is the single source of truth for who is signed in.
package session

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/seucuidado/internal/models"
)

const (
	CookieName = "session"
	TTL        = 24 * time.Hour

	contextKey = "session"
)

var ErrInvalidToken = errors.New("invalid session token")

type Session struct {
	UserID    uint      `json:"user_id"`
	Role      string    `json:"role"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) IsClient() bool       { return s.Role == models.RoleClient }
func (s Session) IsProfessional() bool { return s.Role == models.RoleProfessional }
func (s Session) IsAdmin() bool        { return s.Role == models.RoleAdmin }

// ======================================================
// Tokens
// ======================================================

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: TTL, now: time.Now}
}

func (i *Issuer) Issue(userID uint, role string) (string, Session, error) {
	now := i.now()
	s := Session{
		UserID:    userID,
		Role:      role,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(i.ttl).Truncate(time.Second),
	}

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"jti":  s.TokenID,
		"exp":  s.ExpiresAt.Unix(),
		"iat":  now.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", Session{}, err
	}
	return token, s, nil
}

func (i *Issuer) Parse(tokenString string) (Session, error) {
	token, err := jwt.Parse(
		tokenString,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrInvalidToken
	}

	sub, ok1 := claims["sub"].(float64)
	role, ok2 := claims["role"].(string)
	jti, ok3 := claims["jti"].(string)
	exp, err := claims.GetExpirationTime()
	if !ok1 || !ok2 || !ok3 || err != nil || exp == nil {
		return Session{}, ErrInvalidToken
	}

	return Session{
		UserID:    uint(sub),
		Role:      role,
		TokenID:   jti,
		ExpiresAt: exp.Time,
	}, nil
}

// ======================================================
// gin context
// ======================================================

func Set(c *gin.Context, s Session) {
	c.Set(contextKey, s)
}

func From(c *gin.Context) (Session, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}
