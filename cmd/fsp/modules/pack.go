package modules

import (
	"fmt"
	"io"
	"os"

	"github.com/cheggaaa/pb"
	"github.com/dustin/go-humanize"
	"github.com/nspcc-dev/fsp/pkg/packer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const noProgressFlag = "no-progress"

func (a *app) packCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack <input> <output>",
		Short: "Split a file or a directory tree into part files",
		Long: `Split input file or every regular file under input directory into part files
written to output directory. Output directory is created if missing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			noProgress, _ := cmd.Flags().GetBool(noProgressFlag)
			return a.pack(cmd, args[0], args[1], noProgress)
		},
	}

	cmd.Flags().Bool(noProgressFlag, false, "Do not show progress bar")

	return cmd
}

func (a *app) pack(cmd *cobra.Command, input, output string, noProgress bool) error {
	defer a.sync()

	opts := []packer.Option{packer.WithLogger(a.log)}
	if !noProgress && isTerminal(os.Stderr) {
		opts = append(opts, packer.WithProgress(&barProgress{out: cmd.ErrOrStderr()}))
	}

	res, err := packer.New(a.packerConfig(), opts...).Pack(cmd.Context(), input, output)
	if err != nil {
		a.log.Error("packing failed",
			zap.Uint64("files", res.Files),
			zap.Uint64("parts", res.Parts))
		return fmt.Errorf("pack: %w", err)
	}

	cmd.Printf("Packed %d file(s), %s, into %d part(s).\n",
		res.Files, humanize.IBytes(res.Bytes), res.Parts)

	return nil
}

// barProgress draws packing progress in the terminal.
type barProgress struct {
	out io.Writer
	bar *pb.ProgressBar
}

func (x *barProgress) Start(total int64) {
	x.bar = pb.New64(total)
	x.bar.Output = x.out
	x.bar.SetUnits(pb.U_BYTES)
	x.bar.ShowSpeed = true
	x.bar.Start()
}

func (x *barProgress) Proxy(r io.Reader) io.Reader {
	return x.bar.NewProxyReader(r)
}

func (x *barProgress) Finish() {
	x.bar.Finish()
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
