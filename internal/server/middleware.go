package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sngm3741/stagelink/api/internal/infrastructure/auth"
	"github.com/sngm3741/stagelink/api/internal/infrastructure/cache"
	"github.com/sngm3741/stagelink/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/stagelink/api/internal/public/application"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// tokenParser verifies a bearer token. Satisfied by auth.JWTService.
type tokenParser interface {
	Parse(token string) (*publicapp.Principal, error)
}

// revocationChecker is the read side of cache.TokenBlacklist.
type revocationChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	IsUserTokenInvalidated(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

// withCORS adds CORS headers for allowed origins. "*" allows any origin.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Expose-Headers", "X-Request-Id,X-RateLimit-Limit,X-RateLimit-Remaining")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	_, ok := allowed[origin]
	return ok
}

// accessLog writes one structured line per request.
func accessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			}
			if status >= http.StatusInternalServerError {
				logger.Warn("request", fields...)
				return
			}
			logger.Info("request", fields...)
		})
	}
}

// authMiddleware resolves the bearer token into a principal. Revoked tokens
// and tokens issued before a user-wide invalidation are rejected.
func authMiddleware(parser tokenParser, revocations revocationChecker, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if header == "" {
				common.WriteMessage(logger, w, http.StatusUnauthorized, "missing Authorization header")
				return
			}
			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(header, bearerPrefix) {
				common.WriteMessage(logger, w, http.StatusUnauthorized, "expected a Bearer token")
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
			if token == "" {
				common.WriteMessage(logger, w, http.StatusUnauthorized, "empty access token")
				return
			}

			principal, err := parser.Parse(token)
			if err != nil {
				message := "invalid access token"
				if errors.Is(err, auth.ErrExpiredToken) {
					message = "access token has expired"
				}
				common.WriteMessage(logger, w, http.StatusUnauthorized, message)
				return
			}

			revoked, err := revocations.IsBlacklisted(r.Context(), principal.TokenID)
			if err == nil && !revoked {
				revoked, err = revocations.IsUserTokenInvalidated(r.Context(), principal.UserID, principal.IssuedAt)
			}
			if err != nil {
				logger.Error("token revocation lookup failed",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.Error(err))
				common.WriteMessage(logger, w, http.StatusServiceUnavailable, "authentication temporarily unavailable")
				return
			}
			if revoked {
				common.WriteMessage(logger, w, http.StatusUnauthorized, "access token has been revoked")
				return
			}

			ctx := common.ContextWithPrincipal(r.Context(), *principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireRole must run after authMiddleware.
func requireRole(role domain.Role, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := common.PrincipalFromContext(r.Context())
			if !ok {
				common.WriteMessage(logger, w, http.StatusUnauthorized, "authentication required")
				return
			}
			if principal.Role != role {
				common.WriteMessage(logger, w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// rateLimit throttles by client IP. Limiter failures let the request through.
func rateLimit(limiter cache.RateLimiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.URL.Path + ":" + clientIP(r)
			allowed, remaining, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !allowed {
				common.WriteMessage(logger, w, http.StatusTooManyRequests, "too many requests, try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port RemoteAddr carries when RealIP found no header.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
