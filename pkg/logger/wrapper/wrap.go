package wrap

import (
	"context"
)

// Error wraps err with the current LogCtx from the context
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	return &errorWithLogCtx{
		err:    err,
		logCtx: FromContext(ctx),
	}
}
