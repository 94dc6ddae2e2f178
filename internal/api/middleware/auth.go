package middleware

import (
	"context"
	"errors"
	"net/http"

	"cortex_edu/internal/common"
	"cortex_edu/internal/common/security"
	"cortex_edu/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey   contextKey = "userID"
	UserRoleCtxKey contextKey = "userRole"
)

// Authenticator rejects requests without a valid token. It relies on jwtauth.Verifier
// having run earlier in the chain.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			if err == nil || errors.Is(err, jwtauth.ErrNoTokenFound) {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			} else {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
			}
			return
		}

		ctx, err := withIdentity(r.Context(), claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches the caller's identity when a valid token is present and lets
// anonymous requests through unchanged.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err == nil && token != nil {
			if ctx, err := withIdentity(r.Context(), claims); err == nil {
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func withIdentity(ctx context.Context, claims map[string]interface{}) (context.Context, error) {
	userID, err := security.GetUserIDFromClaims(claims)
	if err != nil {
		return nil, err
	}
	userRole, err := security.GetUserRoleFromClaims(claims)
	if err != nil {
		return nil, err
	}
	ctx = context.WithValue(ctx, UserIDCtxKey, userID)
	ctx = context.WithValue(ctx, UserRoleCtxKey, userRole)
	return ctx, nil
}

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(UserRoleCtxKey).(string)
		if !ok || role != model.RoleAdmin {
			common.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserIDFromContext(ctx context.Context) (uint64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(uint64)
	return userID, ok
}

func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	userRole, ok := ctx.Value(UserRoleCtxKey).(string)
	return userRole, ok
}

func IsAdmin(ctx context.Context) bool {
	role, _ := GetUserRoleFromContext(ctx)
	return role == model.RoleAdmin
}
