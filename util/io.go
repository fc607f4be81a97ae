package util

import (
	"context"
	"io"
)

// CancelableIoReader stops yielding input once ctx is done. A Read already blocked
// in the wrapped reader is not interrupted, but whatever it returns after the
// cancellation is dropped so no command is forwarded past a shutdown signal.
type CancelableIoReader struct {
	ctx context.Context
	r   io.Reader
}

func NewCancelableIoReader(ctx context.Context, r io.Reader) *CancelableIoReader {
	return &CancelableIoReader{ctx: ctx, r: r}
}

func (cr *CancelableIoReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	n, err := cr.r.Read(p)
	if ctxErr := cr.ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}
	return n, err
}
