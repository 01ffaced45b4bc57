package mockapi

import (
	"fmt"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-frontend/sessions"
)

// TokenExpiry is reported to clients as expiresIn, in seconds.
const TokenExpiry = 2 * time.Hour

type tokenMinter struct {
	key []byte
	now func() time.Time
}

func (m tokenMinter) accessToken(u sessions.UserProfile) (string, error) {
	now := m.now()
	claims := jwtlib.MapClaims{
		"sub":   strconv.FormatInt(u.ID, 10),
		"email": u.Email,
		"name":  u.Name,
		"iat":   now.Unix(),
		"exp":   now.Add(TokenExpiry).Unix(),
		"jti":   uuid.New().String(),
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, nil
}

func refreshToken() string {
	return uuid.New().String()
}
