package settings

import (
	"context"
)

type runContextKey struct{}

// IntoContext stores the Run settings for this execution in the context.
func IntoContext(ctx context.Context, s *Run) context.Context {
	return context.WithValue(ctx, runContextKey{}, s)
}

// FromContext retrieves the Run settings, reporting whether they were set.
func FromContext(ctx context.Context) (*Run, bool) {
	s, ok := ctx.Value(runContextKey{}).(*Run)
	return s, ok
}
