package main

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

func init() {
	viper.SetEnvPrefix("neotest")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
