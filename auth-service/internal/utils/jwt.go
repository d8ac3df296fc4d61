package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrUnexpectedSigningMethod = errors.New("unexpected signing method")

type JWTUtil struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTUtil(secret string, ttl time.Duration) *JWTUtil {
	return &JWTUtil{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims is the decoded form of a NomadPal token.
type Claims struct {
	UserID    string
	Role      string
	JTI       string
	ExpiresAt time.Time
}

func (j *JWTUtil) GenerateToken(userID, role string) (string, error) {
	now := j.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     now.Add(j.ttl).Unix(),
		"iat":     now.Unix(),
		"jti":     uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

func (j *JWTUtil) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnexpectedSigningMethod
		}
		return j.secret, nil
	})
}

// ParseClaims validates tokenString and extracts the NomadPal claims.
func (j *JWTUtil) ParseClaims(tokenString string) (*Claims, error) {
	token, err := j.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, _ := mc["user_id"].(string)
	role, _ := mc["role"].(string)
	jti, _ := mc["jti"].(string)
	exp, ok := mc["exp"].(float64)
	if userID == "" || jti == "" || !ok {
		return nil, fmt.Errorf("missing claims in token")
	}

	return &Claims{
		UserID:    userID,
		Role:      role,
		JTI:       jti,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
