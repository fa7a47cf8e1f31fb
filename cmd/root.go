// Package cmd implements the chip8 command line interface.
package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tuboc/chip8/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chip8 [command]",
	Short: "CHIP-8 interpreter",
	Long: `An interpreter for CHIP-8 programs with an SDL front end,
an interactive debugger and a disassembler.`,
	SilenceUsage: true,
}

// Execute runs the command selected on the command line. It is called by
// main and cancels long running commands on SIGINT or SIGTERM.
func Execute() {
	if err := rootCmd.ExecuteContext(app.Context()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.chip8.yaml)")
	flags.Bool(config.KeyDebug, false, "enable debug logging")
	flags.BoolP(config.KeyQuiet, "q", false, "only log errors")
	cobra.CheckErr(viper.BindPFlag(config.KeyDebug, flags.Lookup(config.KeyDebug)))
	cobra.CheckErr(viper.BindPFlag(config.KeyQuiet, flags.Lookup(config.KeyQuiet)))

	config.SetDefaults(viper.GetViper())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".chip8" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".chip8")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			cobra.CheckErr(fmt.Errorf("reading config file: %w", err))
		}
	}
}

// settings resolves the configuration and creates the logger for it.
func settings() (config.Config, *log.Logger, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, nil, err
	}

	logger := cfg.Logger()
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("Using config file", log.String("path", used))
	}
	return cfg, logger, nil
}
