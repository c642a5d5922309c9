package unologin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

const (
	refreshPath = "/users/refresh"
	authPath    = "/users/auth"
)

// loginClaims is the JWT body of an app login token.
type loginClaims struct {
	AppID       string   `json:"appId"`
	AsuID       string   `json:"asuId"`
	UserClasses []string `json:"userClasses"`
	R           *int64   `json:"r,omitempty"`
	jwt.RegisteredClaims
}

func (c loginClaims) userToken() UserToken {
	u := UserToken{
		AppID:       c.AppID,
		AsuID:       c.AsuID,
		UserClasses: c.UserClasses,
		RefreshAt:   c.R,
	}
	if c.IssuedAt != nil {
		u.IssuedAt = c.IssuedAt.Unix()
	}
	return u
}

type refreshRequest struct {
	User userBody `json:"user"`
}

// VerifyTokenAndRefresh verifies token against the login-token key and
// returns the user it identifies. When forceRefresh is set, or the token's
// refresh time has passed, the token is exchanged through /users/refresh and
// the renewed cookie is returned alongside the fresh user token; otherwise the
// cookie is nil and no API call beyond a key fetch is made.
//
// Tokens that fail verification produce an auth error. The key is never
// refetched on failure; callers that want that call Keys().Invalidate().
func (c *Client) VerifyTokenAndRefresh(ctx context.Context, token string, forceRefresh bool) (UserToken, *LoginCookie, error) {
	if c == nil {
		return UserToken{}, nil, ErrNotSetUp
	}
	entry, err := c.keys.entry(ctx)
	if err != nil {
		return UserToken{}, nil, err
	}
	key, methods, err := entry.verification()
	if err != nil {
		return UserToken{}, nil, err
	}

	claims := &loginClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods(methods),
		jwt.WithTimeFunc(c.now),
	)
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}); err != nil {
		return UserToken{}, nil, NewAuthError(err.Error(), nil)
	}

	candidate := claims.userToken()
	if candidate.AppID != c.opts.AppID {
		return UserToken{}, nil, NewAuthError("token not for this appId", map[string]any{"user": candidate})
	}

	if !forceRefresh && !candidate.RefreshDue(c.now().Unix()) {
		return candidate, nil, nil
	}
	return c.refresh(ctx, token)
}

func (c *Client) refresh(ctx context.Context, token string) (UserToken, *LoginCookie, error) {
	raw, err := c.requester.Request(ctx, http.MethodPost, refreshPath, refreshRequest{User: userBody{AppLoginToken: token}})
	if err != nil {
		return UserToken{}, nil, err
	}

	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err != nil {
		return UserToken{}, nil, fmt.Errorf("unologin: decode refresh response: %w", err)
	}
	if len(pair) != 2 {
		return UserToken{}, nil, fmt.Errorf("unologin: refresh response has %d elements, want 2", len(pair))
	}

	var user UserToken
	if err := json.Unmarshal(pair[0], &user); err != nil {
		return UserToken{}, nil, fmt.Errorf("unologin: decode refreshed user: %w", err)
	}
	var cookie LoginCookie
	if err := json.Unmarshal(pair[1], &cookie); err != nil {
		return UserToken{}, nil, fmt.Errorf("unologin: decode refreshed cookie: %w", err)
	}
	return user, &cookie, nil
}

// TokenValidationResult is the outcome of VerifyLoginToken. Exactly one of
// User or Msg is set.
type TokenValidationResult struct {
	User *UserToken
	Msg  string
}

// VerifyLoginToken asks the API to validate token, without local
// verification or refresh. extra is merged into the request body. A rejected
// token yields a result with Msg set and a nil error.
func (c *Client) VerifyLoginToken(ctx context.Context, token string, extra map[string]any) (TokenValidationResult, error) {
	if c == nil {
		return TokenValidationResult{}, ErrNotSetUp
	}
	body := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		body[k] = v
	}
	body["user"] = userBody{AppLoginToken: token}

	raw, err := c.requester.Request(ctx, http.MethodPost, authPath, body)
	if err != nil {
		if apiErr, ok := AsAPIError(err); ok && apiErr.Data["param"] == ParamUser {
			return TokenValidationResult{Msg: apiErr.Msg}, nil
		}
		return TokenValidationResult{}, err
	}

	var user UserToken
	if err := json.Unmarshal(raw, &user); err != nil {
		return TokenValidationResult{}, fmt.Errorf("unologin: decode user: %w", err)
	}
	return TokenValidationResult{User: &user}, nil
}

// Handle wraps a verified token as a UserHandle.
func (u UserToken) Handle() UserHandle {
	return UserHandle{Token: &u}
}
