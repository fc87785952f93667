package mw

import (
	"net/http"

	"github.com/Samyk00/LinkVault/internal/logger"
	"github.com/Samyk00/LinkVault/internal/utils"
)

// AllowOnlyCIDRS admits only clients inside the allowed IPs/CIDRs. An empty
// list disables filtering. trustProxy resolves the client from X-Forwarded-For.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Debug("client rejected",
					logger.String("ip", ip),
					logger.String("remote_addr", r.RemoteAddr),
					logger.Bool("trust_proxy", trustProxy))
				deny(w, http.StatusForbidden, "forbidden", "client address not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
