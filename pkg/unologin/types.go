package unologin

import (
	"encoding/json"
	"strings"
)

// UserToken is the verified payload of an app login token.
type UserToken struct {
	AppID       string   `json:"appId"`
	AsuID       string   `json:"asuId"`
	UserClasses []string `json:"userClasses"`
	// IssuedAt and RefreshAt are seconds since epoch.
	IssuedAt  int64  `json:"iat"`
	RefreshAt *int64 `json:"r,omitempty"`
}

// HasUserClass reports whether the token carries class c.
func (u UserToken) HasUserClass(c string) bool {
	for _, uc := range u.UserClasses {
		if uc == c {
			return true
		}
	}
	return false
}

// RefreshDue reports whether the token must be exchanged via the API at nowUnix.
// An absent or zero r carries no refresh hint.
func (u UserToken) RefreshDue(nowUnix int64) bool {
	return u.RefreshAt != nil && *u.RefreshAt != 0 && *u.RefreshAt+u.IssuedAt < nowUnix
}

// LoginCookie is a renewed credential handed out by /users/refresh.
// MaxAge is in seconds.
type LoginCookie struct {
	Value  string `json:"value"`
	MaxAge int    `json:"maxAge"`
}

// PublicKey is the login-token verification key served by the API.
// CreatedAt and ExpiresIn are milliseconds; ExpiresIn 0 never expires.
type PublicKey struct {
	Data      string `json:"data"`
	CreatedAt int64  `json:"createdAt"`
	ExpiresIn int64  `json:"expiresIn"`
}

const pemPublicKeyHeader = "-----BEGIN PUBLIC KEY-----\n"

// Valid reports whether the key material looks like a PEM public key.
func (k PublicKey) Valid() bool {
	return strings.HasPrefix(k.Data, pemPublicKeyHeader)
}

// fresh reports whether the key can be used at nowMillis without refetching.
func (k PublicKey) fresh(nowMillis int64) bool {
	if k.Data == "" {
		return false
	}
	return k.ExpiresIn == 0 || k.CreatedAt+k.ExpiresIn > nowMillis
}

// UserHandle identifies a user to the API without local verification.
// Exactly one of Token or AppLoginToken is set.
type UserHandle struct {
	Token         *UserToken `json:"-"`
	AppLoginToken string     `json:"appLoginToken,omitempty"`
}

type userBody struct {
	AppLoginToken string `json:"appLoginToken"`
}

// MarshalJSON sends the verified token when present, the raw login token otherwise.
func (h UserHandle) MarshalJSON() ([]byte, error) {
	if h.Token != nil {
		return json.Marshal(h.Token)
	}
	return json.Marshal(userBody{AppLoginToken: h.AppLoginToken})
}
