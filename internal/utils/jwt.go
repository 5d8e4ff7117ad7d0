// Package utils provides token and password helpers shared by the auth
// handler and the seed tooling.
package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed HS256 JWT plus its expiry. The admin UI sends it
// in the Authorization header on every back-office call.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// NewAccessToken signs an HS256 JWT for an admin session. Claims: sub (the
// admin_users id), username, role, exp and iat.
func NewAccessToken(secret, userID, username, role string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"role":     role,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
