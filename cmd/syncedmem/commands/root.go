// Package commands implements the syncedmem command tree.
package commands

import (
	"fmt"

	"github.com/born-ml/syncedmem/internal/config"
	"github.com/born-ml/syncedmem/syncedmem"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const version = "v0.1.0-dev"

var (
	cfgFile string
	verbose bool

	v   = viper.New()
	cfg = config.DefaultConfig()
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "syncedmem",
	Short: "Inspect lazily synchronized host/device buffers",
	Long: `syncedmem opens the configured device and exercises SyncedBuffer
transfers between host memory, device memory, and private layouts.

Settings come from --config, $HOME/.syncedmem/config.yaml or ./config.yaml,
and SYNCEDMEM_* environment variables. Flags take precedence.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = log.Sync()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.syncedmem/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging of every transition and copy")
	flags.String("device", config.DeviceAuto, "device: auto, sim, webgpu, none")
	flags.String("host", config.HostPage, "host allocator: page, go")

	_ = v.BindPFlag("device", flags.Lookup("device"))
	_ = v.BindPFlag("host", flags.Lookup("host"))
}

func setup(*cobra.Command, []string) error {
	loaded, err := config.LoadWith(v, cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		loaded.Logging.Level = "debug"
		loaded.Logging.Development = true
	}
	l, err := loaded.NewLogger()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}

	cfg, log = loaded, l
	syncedmem.SetLogger(log)
	return nil
}
