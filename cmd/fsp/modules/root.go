package modules

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/nspcc-dev/fsp/cmd/fsp/config"
	loggerconfig "github.com/nspcc-dev/fsp/cmd/fsp/config/logger"
	partconfig "github.com/nspcc-dev/fsp/cmd/fsp/config/part"
	scanconfig "github.com/nspcc-dev/fsp/cmd/fsp/config/scan"
	"github.com/nspcc-dev/fsp/cmd/internal/cmderr"
	"github.com/nspcc-dev/fsp/misc"
	"github.com/nspcc-dev/fsp/pkg/packer"
	"github.com/nspcc-dev/fsp/pkg/util/autocomplete"
	"github.com/nspcc-dev/fsp/pkg/util/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	modePack   = "1"
	modeUnpack = "2"
)

const (
	configFlag  = "config"
	verboseFlag = "verbose"
	versionFlag = "version"
)

// app is the state shared by all commands of a single run.
type app struct {
	cfgFile string
	verbose bool

	cfg *config.Config
	log *zap.Logger
}

// Execute runs the command line tool with os.Args. It is called by main.main().
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := new(app)

	rootCmd := &cobra.Command{
		Use:   "fsp [mode input output]",
		Short: "File split packer",
		Long: `fsp splits a file or a directory tree into a flat set of part files of bounded
size and restores the original tree from them.

Each part file is self-describing: it carries the path of the original file and
the part's sequence number, so part files may be renamed, shuffled or mixed in a
single directory.

Besides subcommands, the legacy positional form is supported:

  fsp 1 <input> <output>   pack input file or directory into output directory
  fsp 2 <input> <output>   unpack part files from input directory into output`,
		Args:              cobra.ArbitraryArgs,
		PersistentPreRunE: a.initApp,
		RunE:              a.entryPoint,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.SetOut(os.Stdout)

	ff := rootCmd.PersistentFlags()
	ff.StringVarP(&a.cfgFile, configFlag, "c", "", "Config file (default is $HOME/.config/fsp/config.yaml)")
	ff.BoolVarP(&a.verbose, verboseFlag, "v", false, "Verbose output (debug logging)")
	rootCmd.Flags().Bool(versionFlag, false, "Application version")

	rootCmd.AddCommand(
		a.packCmd(),
		a.unpackCmd(),
		a.inspectCmd(),
		a.configCmd(),
		autocomplete.Command("fsp"),
	)

	return rootCmd
}

func (a *app) entryPoint(cmd *cobra.Command, args []string) error {
	printVersion, _ := cmd.Flags().GetBool(versionFlag)
	if printVersion {
		cmd.Print(misc.BuildInfo("fsp"))
		return nil
	}

	if len(args) < 3 {
		cmd.PrintErrln("please input mode, input dir and output dir")
		return cmd.Usage()
	}

	switch args[0] {
	case modePack:
		return a.pack(cmd, args[1], args[2], false)
	case modeUnpack:
		return a.unpack(cmd, args[1], args[2])
	default:
		return cmderr.ExitErr{
			Code:  2,
			Cause: fmt.Errorf("mode must be %s or %s", modePack, modeUnpack),
		}
	}
}

// initApp reads the configuration and builds the logger.
func (a *app) initApp(*cobra.Command, []string) error {
	var opts []config.Option

	cfgPath := a.cfgFile
	if cfgPath == "" {
		cfgPath = defaultConfigPath()
	}
	if cfgPath != "" {
		opts = append(opts, config.WithConfigFile(cfgPath))
	}

	var err error

	a.cfg, err = config.New(config.Prm{}, opts...)
	if err != nil {
		return err
	}

	if a.verbose {
		a.cfg.Sub("logger").Set("level", "debug")
	}

	var prm logger.Prm

	err = prm.SetLevelString(loggerconfig.Level(a.cfg))
	if err != nil {
		return fmt.Errorf("invalid logger level: %w", err)
	}

	err = prm.SetEncoding(loggerconfig.Encoding(a.cfg))
	if err != nil {
		return err
	}

	if !loggerconfig.Timestamp(a.cfg) {
		prm.DisableTimestamp()
	}

	a.log, err = logger.NewLogger(&prm)
	if err != nil {
		return fmt.Errorf("could not build logger: %w", err)
	}

	if used := a.cfg.Used(); used != "" {
		a.log.Debug("using config file", zap.String("path", used))
	}

	return nil
}

// defaultConfigPath returns the path of the default config file if it exists.
func defaultConfigPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}

	p := filepath.Join(home, ".config", "fsp", "config.yaml")

	_, err = os.Stat(p)
	if err != nil {
		return ""
	}

	return p
}

func (a *app) packerConfig() packer.Config {
	return packer.Config{
		UnitSize:   partconfig.UnitSize(a.cfg),
		MaxUnits:   partconfig.MaxUnits(a.cfg),
		BufferSize: partconfig.BufferSize(a.cfg),
		Suffix:     partconfig.Suffix(a.cfg),
		MaxKeyLen:  partconfig.MaxKeyLen(a.cfg),
		Perm:       partconfig.Perm(a.cfg),
		NoSync:     partconfig.NoSync(a.cfg),
		Strict:     scanconfig.Strict(a.cfg),
	}
}

func (a *app) sync() {
	// stderr sync fails on terminals, nothing to do about it
	_ = a.log.Sync()
}
