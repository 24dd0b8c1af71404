package middleware

import (
	"context"
	"mattressfit/internal/service"
	"net/http"
)

type contextKey string

const AdminUserKey contextKey = "adminUser"

// AdminMiddleware guards admin routes with the admin_token cookie
type AdminMiddleware struct {
	authSvc *service.AuthService
}

// NewAdminMiddleware creates a new admin middleware
func NewAdminMiddleware(authSvc *service.AuthService) *AdminMiddleware {
	return &AdminMiddleware{authSvc: authSvc}
}

// RequireAdmin validates the admin JWT from the cookie
func (m *AdminMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(service.AdminCookieName)
		if err != nil || cookie.Value == "" {
			unauthorized(w)
			return
		}

		claims, err := m.authSvc.ValidateAdminToken(cookie.Value)
		if err != nil {
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), AdminUserKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAdminUser extracts the admin username from context
func GetAdminUser(ctx context.Context) string {
	if v, ok := ctx.Value(AdminUserKey).(string); ok {
		return v
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"Unauthorized"}`))
}
