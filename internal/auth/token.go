package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

func (g *JWTTokenGenerator) GenerateAccessToken(userID, email, userType string) (string, error) {
	return g.signToken(userID, email, userType, g.AccessTokenSecret, g.AccessTokenTTL)
}

func (g *JWTTokenGenerator) GenerateRefreshToken(userID, email, userType string) (string, error) {
	return g.signToken(userID, email, userType, g.RefreshTokenSecret, g.RefreshTokenTTL)
}

func (g *JWTTokenGenerator) signToken(userID, email, userType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Email:    email,
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (g *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	return g.parseToken(tokenString, g.AccessTokenSecret)
}

func (g *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return g.parseToken(tokenString, g.RefreshTokenSecret)
}

func (g *JWTTokenGenerator) parseToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
