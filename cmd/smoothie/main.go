package main

import (
	"os"

	"github.com/aipencil/smoothie/pkg/config"
	"github.com/aipencil/smoothie/pkg/logger"
	"github.com/aipencil/smoothie/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "smoothie",
	Short: "Install Filament skills for AI coding agents",
	Long: `Smoothie installs Filament skills into the directories your editor or coding
agent reads, and registers each skill with the agent's guidelines.

Skills ship with smoothie and can be extended or overridden by placing your own
skills in .ai/smoothie/<name>/SKILL.blade.php.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		presenter.SetQuiet(quiet)

		configFile, _ := cmd.Flags().GetString("config")
		if err := config.Init(viper.GetViper(), configFile); err != nil {
			return err
		}
		return logger.Configure(viper.GetString(config.KeyLogLevel), viper.GetString(config.KeyLogFormat))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

// loadConfig returns the settings resolved from flags, environment and config file
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

func init() {
	bindPersistentFlags(rootCmd.PersistentFlags())
}

// bindPersistentFlags registers the global flags and binds them to their
// configuration keys so flags override the config file and environment.
func bindPersistentFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Config file (default $HOME/.smoothie/config.yaml or ./config.yaml)")
	flags.StringP("project-dir", "C", ".", "Application root to install skills into")
	flags.String("log-level", logger.DefaultLevel, "Log level (panic, fatal, error, warn, info, debug, trace)")
	flags.String("log-format", "text", "Log format (text or json)")
	flags.BoolP("quiet", "q", false, "Suppress progress output; errors are still reported")

	viper.BindPFlag(config.KeyProjectDir, flags.Lookup("project-dir"))
	viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	viper.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		presenter.Error(err, "")
		os.Exit(1)
	}
}
