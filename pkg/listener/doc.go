// Package listener runs the notification socket: a TCP server that accepts
// producer connections and turns each newline-delimited JSON frame into a
// notification.Record for a notification.Handler.
//
// Every connection is served by its own goroutine with its own
// framing.Decoder, so a slow or broken producer never affects another one.
// Records from one connection reach the handler in the order they were sent.
// A malformed frame is logged and dropped; the connection stays open. A
// connection whose unterminated data grows past the frame limit is closed.
//
// Shutdown stops accepting connections and waits for open ones to close on
// their own, up to the shutdown timeout, after which they are closed.
//
//	srv := listener.New(listener.WithAddr("127.0.0.1:8766"), listener.WithLogger(log))
//	err := srv.Run(ctx, notification.HandlerFunc(func(ctx context.Context, rec notification.Record) {
//	    fanout.Deliver(ctx, rec)
//	}))
package listener
