package repository

import "context"

// LockStrength is a row lock hint for reads done inside a transaction.
type LockStrength string

const (
	LockForUpdate LockStrength = "UPDATE"
	LockForShare  LockStrength = "SHARE"
)

type lockKey struct{}

// WithLock asks stores to take row locks on the reads that support it.
// The hint is ignored outside a transaction.
func WithLock(ctx context.Context, s LockStrength) context.Context {
	return context.WithValue(ctx, lockKey{}, s)
}

func LockFrom(ctx context.Context) (LockStrength, bool) {
	s, ok := ctx.Value(lockKey{}).(LockStrength)
	return s, ok && s != ""
}
