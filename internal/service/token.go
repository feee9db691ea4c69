package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/platefit/fulfillment/internal/models"
)

const tokenLifetime = 30 * 24 * time.Hour

// TokenService mints and verifies restaurant API tokens
type TokenService interface {
	CreateToken(restaurantID uuid.UUID) (string, error)
	VerifyToken(tokenString string) (*models.TokenPayload, error)
}

type restaurantClaims struct {
	jwt.RegisteredClaims
	RestaurantID string `json:"restaurant_id"`
}

// JWTTokenService implements TokenService using HMAC-signed JWTs
type JWTTokenService struct {
	key []byte
}

// NewJWTTokenService creates new JWTTokenService instance
func NewJWTTokenService(key []byte) *JWTTokenService {
	return &JWTTokenService{key: key}
}

// CreateToken mints a signed token carrying the restaurant identity
func (ts *JWTTokenService) CreateToken(restaurantID uuid.UUID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, restaurantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
		RestaurantID: restaurantID.String(),
	})

	return token.SignedString(ts.key)
}

// VerifyToken validates the token and extracts the restaurant identity
func (ts *JWTTokenService) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	claims := &restaurantClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return ts.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	restaurantID, err := uuid.Parse(claims.RestaurantID)
	if err != nil {
		return nil, errors.New("invalid restaurant id in token")
	}

	return &models.TokenPayload{RestaurantID: restaurantID}, nil
}
