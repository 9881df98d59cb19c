package auth

import "context"

// AuthVerifier checks a bearer token and returns its claims.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
