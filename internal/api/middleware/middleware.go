// Package middleware contains middleware functions for the API
package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	apiError "github.com/recetas-abuela/backend/internal/api/error"
	"github.com/recetas-abuela/backend/internal/api/requestid"
	"github.com/recetas-abuela/backend/internal/api/token"
	"github.com/recetas-abuela/backend/internal/env"
	"github.com/recetas-abuela/backend/internal/log"

	"github.com/go-chi/httplog/v3"
	"github.com/oklog/ulid/v2"
)

// InjectEnv injects an environment struct into the request context.
func InjectEnv(environment *env.Env) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(env.WithCtx(r.Context(), environment)))
		})
	}
}

func LogRequest(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		LogExtraAttrs: func(r *http.Request, reqBody string, respStatus int) []slog.Attr {
			if id := requestid.ExtractRequestID(r.Context()); id != 0 {
				return []slog.Attr{slog.Uint64("log_id", id)}
			}
			return []slog.Attr{slog.String("log_id", "N/A")}
		},
	})
}

// AddRequestID adds a request ID to the request context.
func AddRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := ulid.Now()
		r = r.WithContext(log.AppendCtx(r.Context(), slog.Uint64("log_id", requestID)))
		r = r.WithContext(requestid.InjectRequestID(r.Context(), requestID))
		next.ServeHTTP(w, r)
	})
}

// AddCors adds the necessary CORS headers to the response. The API is
// openly consumable, so all origins are allowed.
func AddCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Authorize validates the bearer token on protected routes and attaches the
// verified identity to the request context. Every failure branch is
// terminal: the handler chain never continues past a rejection.
func Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := env.EnvFromCtx(r.Context())
		requestID := strconv.FormatUint(requestid.ExtractRequestID(r.Context()), 10)

		header := r.Header.Get("Authorization")
		if header == "" {
			e.Logger.ErrorContext(r.Context(), "missing authorization header")
			_ = apiError.EncodeError(w, apiError.NotAuthorized, "User not authorized", requestID)
			return
		}

		rawToken, err := token.FromAuthorizationHeader(header)
		if err != nil {
			e.Logger.ErrorContext(r.Context(), "malformed authorization header", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, err.Error(), requestID)
			return
		}

		identity, err := token.ValidateAccessToken(rawToken, e)
		if err != nil {
			e.Logger.ErrorContext(r.Context(), "invalid access token", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, err.Error(), requestID)
			return
		}

		r = r.WithContext(log.AppendCtx(r.Context(), slog.Int64("user-id", identity.UserID)))
		r = r.WithContext(token.IdentityWithCtx(r.Context(), identity))

		next.ServeHTTP(w, r)
	})
}
