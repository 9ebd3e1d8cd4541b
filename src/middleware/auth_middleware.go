package middleware

import (
	"context"
	"net/http"

	"finsentinel-server/src/logger"
	"finsentinel-server/src/util"
)

type contextKey string

const userIDKey contextKey = "user_id"

// JWTAuthMiddleware rejects requests without a valid bearer token and
// stores the token's user id in the request context.
func JWTAuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := util.ParseToken(r.Header.Get("Authorization"), secret)
			if err != nil {
				log := logger.FromContext(r.Context())
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected unauthenticated request")
				util.WriteError(w, http.StatusUnauthorized, "Not authorized, token invalid or missing")
				return
			}

			ctx := WithUserID(r.Context(), userID)
			log := logger.FromContext(ctx).With().Int64("user_id", userID).Logger()
			ctx = logger.WithContext(ctx, log)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext reports the authenticated user, if any.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
