package authctx

import (
	"context"
)

type ctxKey string

const (
	uidKey    ctxKey = "uid"
	claimsKey ctxKey = "claims"
	tokenKey  ctxKey = "idToken"
)

func WithUID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, uidKey, uid)
}

func UID(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(uidKey).(string)
	return uid, ok && uid != ""
}

func WithClaims(ctx context.Context, claims map[string]any) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Claims(ctx context.Context) (map[string]any, bool) {
	claims, ok := ctx.Value(claimsKey).(map[string]any)
	return claims, ok
}

// WithIDToken keeps the caller's raw ID token so it can be forwarded to
// callable functions.
func WithIDToken(ctx context.Context, tok string) context.Context {
	return context.WithValue(ctx, tokenKey, tok)
}

func IDToken(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey).(string)
	return tok
}
