package utils

import "context"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	tripIDKey
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestID(ctx context.Context) string {
	s, _ := ctx.Value(requestIDKey).(string)
	return s
}

// WithTripID tags ctx with the trip a model call is made for.
func WithTripID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, tripIDKey, id)
}

func TripID(ctx context.Context) int64 {
	id, _ := ctx.Value(tripIDKey).(int64)
	return id
}
