package modules

import (
	"fmt"

	"github.com/nspcc-dev/fsp/pkg/packer"
	"github.com/spf13/cobra"
)

func (a *app) unpackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpack <input> <output>",
		Short: "Restore files from part files",
		Long: `Restore files from every part file of input directory under output directory.
Output directory is created if missing, existing files with the same paths are
replaced.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.unpack(cmd, args[0], args[1])
		},
	}
}

func (a *app) unpack(cmd *cobra.Command, input, output string) error {
	defer a.sync()

	res, err := packer.New(a.packerConfig(), packer.WithLogger(a.log)).Unpack(cmd.Context(), input, output)
	if err != nil {
		return fmt.Errorf("unpack: %w", err)
	}

	cmd.Printf("Restored %d file(s) from %d part(s).\n", res.Files, res.Parts)
	if res.SkippedParts > 0 {
		cmd.Printf("Skipped %d malformed part file(s).\n", res.SkippedParts)
	}
	if res.SkippedKeys > 0 {
		cmd.Printf("Skipped %d file(s) with invalid path.\n", res.SkippedKeys)
	}

	return nil
}
