package auth

import (
	"context"
)

type contextKey string

const contextKeyOperator contextKey = "operator"

// WithOperator adds the authenticated operator to the context
func WithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, contextKeyOperator, operator)
}

// OperatorFromContext returns the operator set by Middleware
func OperatorFromContext(ctx context.Context) (string, bool) {
	op, ok := ctx.Value(contextKeyOperator).(string)
	return op, ok
}
