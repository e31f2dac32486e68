package mw

import (
	"net/http"

	"github.com/vladlyt/mj/internal/logger"
	"github.com/vladlyt/mj/internal/utils"
)

// AllowOnlyCIDRS lets through only peers matching allowed. An empty list
// disables filtering.
func AllowOnlyCIDRS(allowed []string, log logger.Logger) func(http.Handler) http.Handler {
	m, invalid := utils.NewPrefixMatcher(allowed)
	for _, s := range invalid {
		log.Warn("ignoring invalid CIDR", logger.String("value", s))
	}
	if m.IsEmpty() {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, ok := utils.RemoteIP(r)
			if !ok || !m.Allow(ip) {
				log.Debug("request rejected by CIDR filter",
					logger.String("remote_addr", r.RemoteAddr),
					logger.String("path", r.URL.Path))
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
