package grace

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewGracefulContext(t *testing.T) {
	t.Run("signal", func(t *testing.T) {
		got := make(chan os.Signal, 1)

		ctx, cancel := NewGracefulContext(context.Background(), func(s os.Signal) {
			got <- s
		})
		defer cancel()

		require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGHUP))

		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("context is not cancelled on signal")
		}
		require.Equal(t, syscall.SIGHUP, <-got)
	})

	t.Run("cancel", func(t *testing.T) {
		ctx, cancel := NewGracefulContext(context.Background(), nil)
		cancel()
		require.ErrorIs(t, ctx.Err(), context.Canceled)
	})
}
