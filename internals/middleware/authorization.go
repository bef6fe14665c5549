package middle

import (
	"net/http"
	"pulsewatch/internals/security"
	"pulsewatch/pkg/apperror"
	"pulsewatch/pkg/utils"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const APIKeyHeader = "X-API-Key"

// RequireAPIKey guards internal routes with a shared key checked against an
// argon2id hash. An empty hash disables the routes entirely.
func RequireAPIKey(hash string, log *zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			reqID := middleware.GetReqID(r.Context())

			if hash == "" {
				utils.WriteError(w, http.StatusForbidden, reqID, apperror.Forbidden, "internal api is disabled")
				return
			}

			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "missing api key")
				return
			}

			ok, err := security.VerifyAPIKey(key, hash)
			if err != nil {
				log.Error().Err(err).Str("request_id", reqID).Msg("api key verification failed")
				utils.WriteError(w, http.StatusInternalServerError, reqID, apperror.Internal, "")
				return
			}
			if !ok {
				utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
