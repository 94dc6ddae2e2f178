package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	TokenAuth *jwtauth.JWTAuth
	tokenTTL  = 72 * time.Hour
)

func InitJWT(key []byte, ttl time.Duration) {
	TokenAuth = jwtauth.New("HS256", key, nil)
	if ttl > 0 {
		tokenTTL = ttl
	}
}

// GenerateToken issues a signed token. The user id travels as a decimal string so it
// survives the float64 conversion JSON numbers go through in claim maps.
func GenerateToken(userID uint64, role string) (string, error) {
	if TokenAuth == nil {
		return "", errors.New("jwt signer is not initialised")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": strconv.FormatUint(userID, 10),
		"role":    role,
		"jti":     uuid.NewString(),
		"exp":     now.Add(tokenTTL).Unix(),
		"iat":     now.Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// Helper functions to extract claims, can be used in middleware or services
func GetUserIDFromClaims(claims jwt.MapClaims) (uint64, error) {
	raw, ok := claims["user_id"].(string)
	if !ok {
		return 0, errors.New("user_id claim is missing or not a string")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("user_id claim is not a valid id")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
