package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nspcc-dev/fsp/cmd/fsp/modules"
	"github.com/nspcc-dev/fsp/cmd/internal/cmderr"
	"github.com/nspcc-dev/fsp/pkg/util/grace"
)

func main() {
	ctx, cancel := grace.NewGracefulContext(context.Background(), func(sig os.Signal) {
		fmt.Fprintf(os.Stderr, "received signal %s, stopping\n", sig)
	})

	err := modules.Execute(ctx)
	cancel()

	cmderr.ExitOnErr(err)
}
