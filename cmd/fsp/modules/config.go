package modules

import (
	"fmt"

	loggerconfig "github.com/nspcc-dev/fsp/cmd/fsp/config/logger"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type effectiveConfig struct {
	Logger struct {
		Level     string `yaml:"level"`
		Encoding  string `yaml:"encoding"`
		Timestamp bool   `yaml:"timestamp"`
	} `yaml:"logger"`
	Part struct {
		UnitSize   uint64 `yaml:"unit_size"`
		MaxUnits   uint64 `yaml:"max_units"`
		BufferSize uint64 `yaml:"buffer_size"`
		Suffix     string `yaml:"suffix"`
		MaxKeyLen  int    `yaml:"max_key_len"`
		Perm       string `yaml:"perm"`
		NoSync     bool   `yaml:"no_sync"`
	} `yaml:"part"`
	Scan struct {
		Strict bool `yaml:"strict"`
	} `yaml:"scan"`
}

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print effective configuration",
		Long: `Print configuration resolved from defaults, config file and FSP_* environment
variables in YAML format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer a.sync()

			var c effectiveConfig
			pc := a.packerConfig()

			c.Logger.Level = loggerconfig.Level(a.cfg)
			c.Logger.Encoding = loggerconfig.Encoding(a.cfg)
			c.Logger.Timestamp = loggerconfig.Timestamp(a.cfg)
			c.Part.UnitSize = pc.UnitSize
			c.Part.MaxUnits = pc.MaxUnits
			c.Part.BufferSize = pc.BufferSize
			c.Part.Suffix = pc.Suffix
			c.Part.MaxKeyLen = pc.MaxKeyLen
			c.Part.Perm = fmt.Sprintf("%#o", pc.Perm)
			c.Part.NoSync = pc.NoSync
			c.Scan.Strict = pc.Strict

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)

			err := enc.Encode(c)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}

			return enc.Close()
		},
	}
}
