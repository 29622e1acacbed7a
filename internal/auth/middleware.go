package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/devconnect/devconnect/internal/platform/httpx"
	"github.com/devconnect/devconnect/internal/shared"
)

// LegacyTokenHeader is accepted when no Authorization header is sent.
const LegacyTokenHeader = "X-Auth-Token"

// Middleware rejects requests without a valid session token and stores the
// token subject in the request context.
func Middleware(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				httpx.RespondError(w, ErrNoToken)
				return
			}
			userID, err := verifier.Verify(token)
			if err != nil {
				if !httpx.IsClientError(err) && logger != nil {
					logger.Error("verify token", slog.Any("error", err))
				}
				httpx.RespondError(w, ErrTokenInvalid)
				return
			}
			ctx := shared.ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get(LegacyTokenHeader))
}
