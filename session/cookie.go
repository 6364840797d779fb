package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"task-man/comm"
)

const issuer = "task-man"

// Signer 将 session id 签名为 JWT（HS256），作为 cookie 的值
type Signer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewSigner ttl 小于等于 0 时，token 不设置过期时间
func NewSigner(key string, ttl time.Duration) *Signer {
	return &Signer{key: []byte(key), ttl: ttl, now: time.Now}
}

// Sign 生成 token
func (s *Signer) Sign(id string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:       id,
		Issuer:   issuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", comm.Wrap(comm.Unauthenticated, "session.sign", err, "sign session id")
	}
	return token, nil
}

// Parse 校验 token 并返回 session id
func (s *Signer) Parse(raw string) (string, error) {
	const op = "session.parse"
	if raw == "" {
		return "", comm.Ef(comm.Unauthenticated, op, "no session cookie")
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", comm.Wrap(comm.Unauthenticated, op, err, "bad session cookie")
	}
	if claims.ID == "" {
		return "", comm.Ef(comm.Unauthenticated, op, "empty session id")
	}
	return claims.ID, nil
}
