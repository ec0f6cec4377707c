package middleware

import (
	"context"
	"net/http"

	"github.com/m32jawad/Arena/internal/auth"
)

type contextKey string

const claimsKey contextKey = "staff_claims"

// RequireStaff rejects requests without a valid auth_token cookie and puts
// the verified claims on the request context.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authenticate(r)
		if !ok {
			http.Error(w, `{"error":"Authentication required."}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// RequireSuperuser additionally demands the superuser claim.
func RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authenticate(r)
		if !ok {
			http.Error(w, `{"error":"Authentication required."}`, http.StatusUnauthorized)
			return
		}
		if !claims.IsSuperuser {
			http.Error(w, `{"error":"Superuser access required."}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// StaffFromContext returns the claims set by RequireStaff/RequireSuperuser.
func StaffFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(auth.Claims)
	return claims, ok
}

func authenticate(r *http.Request) (auth.Claims, bool) {
	cookie, err := r.Cookie("auth_token")
	if err != nil || cookie.Value == "" {
		return auth.Claims{}, false
	}
	claims, err := auth.AuthenticateJWT(cookie.Value)
	if err != nil {
		return auth.Claims{}, false
	}
	return claims, true
}
