// ABOUTME: Transport identity gate requiring a client certificate on the connection
// ABOUTME: Presence-only check; chain validation belongs to the listener's TLS config

package auth

import (
	"log/slog"
	"net/http"
)

// RequireClientCert creates an HTTP middleware that rejects any request
// arriving on a connection that did not present a client certificate at the
// TLS layer. It runs before route dispatch and composes in front of, not
// instead of, the bearer-token middleware.
//
// This is strictly a presence check. Certificate chain, subject, and
// revocation validation are the responsibility of the listener's tls.Config
// (ClientAuth plus a client CA pool), not of this gate.
func RequireClientCert(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS == nil || len(r.TLS.PeerCertificates) == 0 {
				logger.Warn("request without client certificate", "path", r.URL.Path, "remote", r.RemoteAddr)
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
