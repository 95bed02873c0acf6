package http

import (
	"context"
	"net/http"

	"github.com/abhinimbalkar96-spec/blak-website/pkg/httputil"
	"github.com/abhinimbalkar96-spec/blak-website/pkg/logger"
)

// SessionHeader carries the storefront session identifier. The frontend
// generates it once per browser and sends it on every request.
const SessionHeader = "X-Session-ID"

type sessionKeyType struct{}

var sessionKey sessionKeyType

// RequireSession rejects requests without a session header and puts the
// session ID on the request context.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(SessionHeader)
		if sessionID == "" {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "MISSING_SESSION",
					Message: "the " + SessionHeader + " header is required",
				},
			})
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, sessionID)
		ctx = logger.WithSessionID(ctx, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionKey).(string); ok {
		return id
	}
	return ""
}
