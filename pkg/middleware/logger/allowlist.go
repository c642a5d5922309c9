package logger

import (
	"net/http"
	"strings"
	"sync"
)

// Nothing is allowlisted by default: login bodies carry tokens.
var (
	bodyLogMu    sync.RWMutex
	bodyLogPaths = map[string]struct{}{}
)

// AddBodyLogPaths lets callers extend the allowlist at runtime.
func AddBodyLogPaths(paths ...string) {
	bodyLogMu.Lock()
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p != "" {
			bodyLogPaths[p] = struct{}{}
		}
	}
	bodyLogMu.Unlock()
}

func allowlisted(path string) bool {
	bodyLogMu.RLock()
	_, ok := bodyLogPaths[path]
	bodyLogMu.RUnlock()
	return ok
}

func shouldReadBody(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return false
	}
	return allowlisted(r.URL.Path)
}

// Only log small JSON request bodies on allowlisted routes.
func shouldLogBody(r *http.Request, body []byte) bool {
	if len(body) == 0 || len(body) > 1<<16 { // 64 KiB cap
		return false
	}
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "application/json") {
		return false
	}
	return allowlisted(r.URL.Path)
}
