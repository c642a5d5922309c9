package auth

import (
	"net/http"
	"strings"

	"github.com/joeydtaylor/unologin-go/pkg/unologin"
)

// Dev-only user injection via headers when dev_bypass is on.
func (m *Middleware) devUserFromHeaders(r *http.Request) (unologin.UserToken, bool) {
	asuID := strings.TrimSpace(r.Header.Get("X-Dev-AsuId"))
	if asuID == "" {
		return unologin.UserToken{}, false
	}
	var classes []string
	for _, c := range strings.Split(r.Header.Get("X-Dev-UserClasses"), ",") {
		if c = strings.TrimSpace(c); c != "" {
			classes = append(classes, c)
		}
	}
	return unologin.UserToken{
		AppID:       m.client.AppID(),
		AsuID:       asuID,
		UserClasses: classes,
		IssuedAt:    m.client.Options().Now().Unix(),
	}, true
}
