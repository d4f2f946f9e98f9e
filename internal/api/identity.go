package api

import "context"

type ownerKey struct{}

// WithOwner returns a context carrying the id of the user making the request
func WithOwner(ctx context.Context, ownerID int64) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFromContext returns the user id stored by WithOwner.
// ok is false when no positive id is present.
func OwnerFromContext(ctx context.Context) (ownerID int64, ok bool) {
	ownerID, ok = ctx.Value(ownerKey{}).(int64)
	if !ok || ownerID <= 0 {
		return 0, false
	}
	return ownerID, true
}
