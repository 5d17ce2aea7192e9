package printer

import (
	"context"
	"io"
)

type ctxkey struct{}

// WithWriter attaches writer to ctx. Printers obtained through Ctx write to
// it instead of their own writer.
func WithWriter(ctx context.Context, writer io.Writer) context.Context {
	return context.WithValue(ctx, ctxkey{}, writer)
}

// GetWriter returns the writer attached to ctx.
func GetWriter(ctx context.Context) (io.Writer, bool) {
	w, ok := ctx.Value(ctxkey{}).(io.Writer)
	return w, ok
}
