package auth

import (
	"context"
	"net/http"

	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

// GetUser returns the identity resolved for the request, nil when anonymous
// or not resolved yet.
func (m *Middleware) GetUser(ctx context.Context) *unologin.UserToken {
	return UserFromContext(ctx)
}

// UserFromContext is GetUser for code without access to the Middleware.
func UserFromContext(ctx context.Context) *unologin.UserToken {
	u, _ := cachedUser(ctx)
	return u
}

func (m *Middleware) IsAuthenticated(ctx context.Context) bool {
	return m.GetUser(ctx) != nil
}

func (m *Middleware) HasUserClass(ctx context.Context, class string) bool {
	u := m.GetUser(ctx)
	return u != nil && u.HasUserClass(class)
}

// UserHandleNoAuth identifies the caller to the API without verifying the
// login locally: the resolved identity if there is one, else the raw login
// token. It fails with unologin.ErrNoToken when neither exists.
func (m *Middleware) UserHandleNoAuth(r *http.Request) (unologin.UserHandle, error) {
	if u := m.GetUser(r.Context()); u != nil {
		return u.Handle(), nil
	}
	if token := loginToken(r); token != "" {
		return unologin.UserHandle{AppLoginToken: token}, nil
	}
	return unologin.UserHandle{}, unologin.ErrNoToken
}
