package notification

import "context"

// Handler consumes decoded records. Ingresses call it once per record, in
// arrival order for a given connection.
type Handler interface {
	HandleRecord(ctx context.Context, rec Record)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, rec Record)

func (f HandlerFunc) HandleRecord(ctx context.Context, rec Record) { f(ctx, rec) }
