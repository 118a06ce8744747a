package modules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/nspcc-dev/fsp/pkg/partstore"
	"github.com/nspcc-dev/fsp/pkg/restore"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <dir>",
		Short: "List files stored in a part directory",
		Long: `List keys of part files found in the directory with the number of parts, their
sequence range and the total payload size. Missing and repeated sequence numbers
are reported, as well as files with the part suffix which are not valid parts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.inspect(cmd, args[0])
		},
	}
}

func (a *app) inspect(cmd *cobra.Command, dir string) error {
	defer a.sync()

	cfg := a.packerConfig()

	store := partstore.New(
		partstore.WithPath(dir),
		partstore.WithSuffix(cfg.Suffix),
		partstore.WithMaxKeyLen(cfg.MaxKeyLen),
		partstore.WithStrict(cfg.Strict),
		partstore.WithLogger(a.log),
	)

	idx, err := store.Scan()
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	w := tablewriter.NewWriter(cmd.OutOrStdout())
	w.SetHeader([]string{"Key", "Parts", "Sequence", "Size", "Status"})
	w.SetAlignment(tablewriter.ALIGN_LEFT)
	w.SetAutoWrapText(false)

	for _, key := range idx.Keys() {
		parts := idx.Parts[key]

		var size int64
		for i := range parts {
			size += parts[i].PayloadLen
		}

		seq := restore.CheckSequence(parts)

		w.Append([]string{
			key,
			strconv.Itoa(len(parts)),
			fmt.Sprintf("%d-%d", seq.First, seq.Last),
			humanize.IBytes(uint64(size)),
			sequenceStatus(seq),
		})
	}

	w.Render()

	if len(idx.Skipped) > 0 {
		cmd.Printf("Skipped %d file(s):\n", len(idx.Skipped))
		for _, s := range idx.Skipped {
			cmd.Printf("  %s: %v\n", s.Name, s.Err)
		}
	}

	return nil
}

func sequenceStatus(s restore.Sequence) string {
	if s.Complete() {
		return "ok"
	}

	var problems []string
	if s.First < 1 {
		problems = append(problems, "non-positive sequence")
	}
	if len(s.Missing) > 0 {
		problems = append(problems, "missing "+joinInts(s.Missing))
	}
	if len(s.Duplicate) > 0 {
		problems = append(problems, "duplicate "+joinInts(s.Duplicate))
	}

	return strings.Join(problems, "; ")
}

func joinInts(v []int64) string {
	ss := make([]string, len(v))
	for i := range v {
		ss[i] = strconv.FormatInt(v[i], 10)
	}
	return strings.Join(ss, ",")
}
