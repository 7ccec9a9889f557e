package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"saas-platform/backend/internal/authctx"
	"saas-platform/backend/internal/httpjson"
)

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

var ErrVerifierUnavailable = errors.New("token verification unavailable")

type unavailableVerifier struct{ cause error }

func (u unavailableVerifier) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return nil, fmt.Errorf("%w: %w", ErrVerifierUnavailable, u.cause)
}

// UnavailableVerifier stands in for an auth client that could not be built.
// Every request it sees gets 503.
func UnavailableVerifier(cause error) TokenVerifier {
	return unavailableVerifier{cause: cause}
}

type AuthUser struct {
	UID    string
	Email  string
	Claims map[string]any
}

type ctxKey string

const authUserKey ctxKey = "authUser"

func WithAuth(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if len(h) < len("Bearer ") || !strings.EqualFold(h[:len("Bearer ")], "bearer ") {
				httpjson.Error(w, http.StatusUnauthorized, "missing Authorization: Bearer <token>")
				return
			}
			idToken := strings.TrimSpace(h[len("Bearer "):])

			tok, err := v.VerifyIDToken(r.Context(), idToken)
			if errors.Is(err, ErrVerifierUnavailable) {
				httpjson.Error(w, http.StatusServiceUnavailable, "authentication unavailable")
				return
			}
			if err != nil {
				httpjson.Error(w, http.StatusUnauthorized, "invalid token")
				return
			}

			au := &AuthUser{UID: tok.UID, Claims: tok.Claims}
			if email, ok := tok.Claims["email"].(string); ok {
				au.Email = email
			}

			ctx := context.WithValue(r.Context(), authUserKey, au)
			ctx = authctx.WithUID(ctx, tok.UID)
			ctx = authctx.WithClaims(ctx, tok.Claims)
			ctx = authctx.WithIDToken(ctx, idToken)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetAuthUser(ctx context.Context) (*AuthUser, bool) {
	au, ok := ctx.Value(authUserKey).(*AuthUser)
	return au, ok
}

// RequireAdmin must run after WithAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := authctx.Claims(r.Context())
		if !IsAdmin(claims) {
			httpjson.Error(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IsAdmin accepts admin=true, role="admin", roles.admin=true or "admin" in a
// roles array.
func IsAdmin(claims map[string]any) bool {
	if claims == nil {
		return false
	}
	if admin, ok := claims["admin"].(bool); ok && admin {
		return true
	}
	if role, ok := claims["role"].(string); ok && role == "admin" {
		return true
	}
	if roles, ok := claims["roles"].(map[string]any); ok {
		if b, ok := roles["admin"].(bool); ok && b {
			return true
		}
	}
	if roles, ok := claims["roles"].([]any); ok {
		for _, r := range roles {
			if s, ok := r.(string); ok && s == "admin" {
				return true
			}
		}
	}
	return false
}
