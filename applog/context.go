package applog

import (
	"context"
	"slices"

	"go.uber.org/zap"
)

type contextFieldsKey struct{}

// FromContext returns the current logger decorated with the fields stored on ctx.
func FromContext(ctx context.Context) *Logger {
	return current().With(contextFields(ctx)...)
}

func contextFields(ctx context.Context) []zap.Field {
	fields, _ := ctx.Value(contextFieldsKey{}).([]zap.Field)
	return fields
}

// AddContextFields returns a child of ctx carrying fields for FromContext. A field
// replaces an earlier one with the same key in place, so every line of a command
// keeps matchId first whatever is added later.
func AddContextFields(ctx context.Context, fields ...zap.Field) context.Context {
	merged := slices.Clone(contextFields(ctx))
	for _, f := range fields {
		i := slices.IndexFunc(merged, func(e zap.Field) bool { return e.Key == f.Key })
		if i >= 0 {
			merged[i] = f
			continue
		}
		merged = append(merged, f)
	}
	return context.WithValue(ctx, contextFieldsKey{}, merged)
}
