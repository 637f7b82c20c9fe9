package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/investor-portal/pkg/logger"
)

// tokenVerifier is the part of the Firebase auth client the middleware needs.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Middleware struct {
	AuthClient tokenVerifier
}

func NewMiddleware(client tokenVerifier) *Middleware {
	return &Middleware{AuthClient: client}
}

// context key
type contextKey string

const UIDKey contextKey = "uid"

// Main middleware
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get("Authorization")
		if header == "" {
			http.Error(w, "missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "invalid Authorization header", http.StatusUnauthorized)
			return
		}

		tokenStr := parts[1]

		// Verify ID Token
		token, err := m.AuthClient.VerifyIDToken(r.Context(), tokenStr)
		if err != nil {
			logger.FromContext(r.Context()).Warn("token verification failed", "error", err)
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUID(r.Context(), token.UID)))
	})
}

// StaticUID serves every request as one fixed investor. Used for local demos
// where there is no identity provider.
func StaticUID(uid string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(withUID(r.Context(), uid)))
		})
	}
}

func withUID(ctx context.Context, uid string) context.Context {
	ctx = context.WithValue(ctx, UIDKey, uid)
	_, ctx = logger.With(ctx, "uid", uid)
	return ctx
}

// Helper to extract UID
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}
