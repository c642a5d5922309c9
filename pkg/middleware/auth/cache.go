package auth

import (
	"context"
	"net/http"
	"sync"

	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

type contextKey struct{ name string }

var requestStateKey = &contextKey{"unologin-request"}

// requestState memoizes the identity for one request. It starts unset and
// becomes either a user or anonymous (nil), after which it never changes.
type requestState struct {
	mu   sync.Mutex
	set  bool
	user *unologin.UserToken
}

func (s *requestState) get() (*unologin.UserToken, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.set
}

// store records u unless the state was already decided.
func (s *requestState) store(u *unologin.UserToken) *unologin.UserToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set {
		return s.user
	}
	s.set = true
	s.user = u
	return u
}

func stateFrom(ctx context.Context) *requestState {
	s, _ := ctx.Value(requestStateKey).(*requestState)
	return s
}

// WithRequestCache attaches an empty identity cache to r. Requests that
// already carry one are returned unchanged.
func WithRequestCache(r *http.Request) *http.Request {
	if stateFrom(r.Context()) != nil {
		return r
	}
	return r.WithContext(context.WithValue(r.Context(), requestStateKey, &requestState{}))
}

// cachedUser reports the memoized identity of the request. set is false until
// verification has run.
func cachedUser(ctx context.Context) (user *unologin.UserToken, set bool) {
	if s := stateFrom(ctx); s != nil {
		return s.get()
	}
	return nil, false
}

// setCachedUser decides the identity of the request; later calls are ignored.
func setCachedUser(ctx context.Context, u *unologin.UserToken) *unologin.UserToken {
	if s := stateFrom(ctx); s != nil {
		return s.store(u)
	}
	return u
}
