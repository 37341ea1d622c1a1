package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/DavidJosephLai/casewhr-backend/api/responses"
	"github.com/DavidJosephLai/casewhr-backend/pkg/config"
	pkgerrors "github.com/DavidJosephLai/casewhr-backend/pkg/errors"
	"github.com/DavidJosephLai/casewhr-backend/pkg/logger"
)

const internalTokenHeader = "X-Internal-Token"

// InternalAuth guards the service-to-service surface with a shared token.
// Routes behind it must never be exposed on public ingress; the token is a
// second line of defense, not the only one.
func InternalAuth(cfg config.InternalConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(internalTokenHeader))
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing service token"))
				return
			}
			if subtle.ConstantTimeCompare([]byte(token), []byte(cfg.ServiceToken)) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "invalid service token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
