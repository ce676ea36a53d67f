// Package cli implements logq, a local front end to the same parsing and
// filtering engine the server runs.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "logq",
		Short: "logq filters bracketed-timestamp log files",
		Long: `logq reads log files whose lines look like
  [2024-01-15 10:30:00 ERR] message
and filters them with the same query syntax as the log viewer:
quoted phrases, plain terms and -negated terms.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.logq.yaml)")
	flags.StringP("output", "o", "text", "output format: text, json")
	flags.String("timezone", "UTC", "location log timestamps are written in")
	flags.StringSlice("patterns", []string{"*.txt", "*.log", "*.LOG", "*.gz", "*.zst"}, "file patterns listed by the files command")
	flags.String("log-level", "warn", "diagnostic log level written to stderr")

	for _, name := range []string{"output", "timezone", "patterns", "log-level"} {
		cobra.CheckErr(v.BindPFlag(name, flags.Lookup(name)))
	}

	rootCmd.AddCommand(newFilterCmd(v), newFilesCmd(v))
	return rootCmd
}

func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".logq")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("LOGQ")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}
