package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/opentariff/landedcost/internal/config"
)

// Gate creates an HTTP middleware enforcing the end-user Basic credential pair.
// This gate is separate from the valuation service account: it protects the
// application's own endpoints, while the service account authenticates the
// outbound valuation calls.
//
// Every attempt is logged under a per-request ID so failed logins can be
// correlated across log lines.
func Gate(cfg *config.GateConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()

			username, password, ok := r.BasicAuth()
			if !ok {
				slog.Warn("no authorization header provided",
					"request_id", requestID,
					"path", r.URL.Path,
				)
				unauthorized(w)
				return
			}

			if !credentialsMatch(cfg, username, password) {
				slog.Warn("invalid credentials",
					"request_id", requestID,
					"username", username,
				)
				unauthorized(w)
				return
			}

			slog.Debug("authentication successful", "request_id", requestID)
			next.ServeHTTP(w, r)
		})
	}
}

// credentialsMatch compares both fields in constant time.
func credentialsMatch(cfg *config.GateConfig, username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1
	return userOK && passOK
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="Login Required"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
