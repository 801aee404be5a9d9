package auth

import "context"

type claimsKey struct{}

// WithUserClaims adds the authenticated caller to the context.
func WithUserClaims(ctx context.Context, claims *UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetUserClaims retrieves the authenticated caller from the context, or nil.
func GetUserClaims(ctx context.Context) *UserClaims {
	claims, _ := ctx.Value(claimsKey{}).(*UserClaims)
	return claims
}
