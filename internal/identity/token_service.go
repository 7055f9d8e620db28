package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/samims/stillup/internal/model"
)

// Claims is the validated content of an access token.
type Claims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

type TokenService interface {
	GenerateToken(user *model.User) (string, *Claims, error)
	ValidateToken(tokenStr string) (*Claims, error)
}

type jwtService struct {
	secret     string
	expiryTime time.Duration
	now        func() time.Time
}

func NewJWTService(secret string, expiry time.Duration) TokenService {
	return &jwtService{secret: secret, expiryTime: expiry, now: time.Now}
}

func (s *jwtService) GenerateToken(user *model.User) (string, *Claims, error) {
	issued := s.now().Truncate(time.Second)
	c := &Claims{
		UserID:    user.ID,
		Email:     user.Email,
		IssuedAt:  issued,
		ExpiresAt: issued.Add(s.expiryTime),
	}
	claims := jwt.MapClaims{
		"sub":   c.UserID,
		"email": c.Email,
		"exp":   c.ExpiresAt.Unix(),
		"iat":   c.IssuedAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", nil, err
	}
	return signed, c, nil
}

func (s *jwtService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		return []byte(s.secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenMalformed
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, jwt.ErrTokenMalformed
	}
	email, _ := claims["email"].(string)

	c := &Claims{UserID: sub, Email: email}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	return c, nil
}
