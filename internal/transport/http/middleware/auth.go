package middleware

import (
	"context"
	"net/http"
	"strings"

	"shifthub/internal/domain/auth"
	"shifthub/internal/transport/http/api"
)

type ctxKey string

const ctxKeyEmployee ctxKey = "employee"

func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyEmployee, auth.EmployeeContext{
				EmployeeID: claims.EmployeeID,
				Role:       claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetEmployee(ctx context.Context) (auth.EmployeeContext, bool) {
	emp, ok := ctx.Value(ctxKeyEmployee).(auth.EmployeeContext)
	return emp, ok
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetEmployee(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		emp, ok := GetEmployee(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		if emp.Role != auth.RoleManager {
			api.Fail(w, http.StatusForbidden, "forbidden", "manager role required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
