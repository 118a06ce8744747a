// Package grace provides contexts cancelled by termination signals.
package grace

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// NewGracefulContext returns a child of parent cancelled on the first SIGINT,
// SIGTERM or SIGHUP. onSignal, if set, is called with the received signal
// before cancellation. A second signal is handled by the default runtime
// behaviour, i.e. kills the process.
//
// The returned cancel function releases the signal subscription.
func NewGracefulContext(parent context.Context, onSignal func(os.Signal)) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		select {
		case sig := <-ch:
			signal.Stop(ch)
			if onSignal != nil {
				onSignal(sig)
			}
			cancel()
		case <-ctx.Done():
			signal.Stop(ch)
		}
	}()

	return ctx, cancel
}
