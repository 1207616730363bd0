package main

import (
	"os"

	"github.com/nanzhong/neotest/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfg *config

var rootCmd = &cobra.Command{
	Use:   "neotest",
	Short: "neotest turns test event streams into results for editors",
	Long:  "neotest consumes a stream of test lifecycle events, rebuilds the suite and test tree and reports a flat mapping of test identifiers to results",
	Args:  cobra.ExactArgs(0),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		_, err = logging.Init(os.Stderr, logging.Format(cfg.LogFormat), logging.ParseLevel(cfg.LogLevel))
		return err
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "The path to a config file (yaml, json or toml)")
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	rootCmd.PersistentFlags().String("log-level", "info", "The log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	rootCmd.PersistentFlags().String("log-format", "text", "The log format (text, json)")
	viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
	rootCmd.PersistentFlags().String("slack-webhook-url", "", "The slack webhook to alert on failures")
	viper.BindPFlag("slack-webhook-url", rootCmd.PersistentFlags().Lookup("slack-webhook-url"))
	rootCmd.PersistentFlags().String("alert-url", "", "The url linked from alerts")
	viper.BindPFlag("alert-url", rootCmd.PersistentFlags().Lookup("alert-url"))

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
}
