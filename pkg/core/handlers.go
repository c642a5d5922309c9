// core/handlers.go
package core

import (
	"context"
	"sync"
)

// InprocHandler is the signature for user-defined in-process handlers.
// 'in' is the raw request body, 'status' is HTTP status code to send.
// The caller's identity, if any, is available via auth.UserFromContext(ctx).
type InprocHandler func(ctx context.Context, in []byte) (out []byte, status int, err error)

var (
	registryMu sync.RWMutex
	registry   = map[string]InprocHandler{}
)

// Register makes a handler available under a name referenced in manifest.toml
func Register(name string, h InprocHandler) {
	registryMu.Lock()
	registry[name] = h
	registryMu.Unlock()
}

// Lookup retrieves a registered in-proc handler by name.
func Lookup(name string) (InprocHandler, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	h, ok := registry[name]
	return h, ok
}
