package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fivetwenty-io/sgdata/cmd/sgdata/commands"
	"github.com/fivetwenty-io/sgdata/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "sgdata",
	Short: "St. Gallen Open Data Portal CLI",
	Long: `A command-line interface for the St. Gallen Open Data Portal.

Query dataset records, inspect dataset metadata and export records to
JSON lines files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP(commands.KeyConfig, "c", "", "config file (default is $HOME/.sgdata/config.yml)")
	rootCmd.PersistentFlags().StringP(commands.KeyBaseURL, "u", constants.DefaultBaseURL, "records API base URL")
	rootCmd.PersistentFlags().StringP(commands.KeyOutput, "o", constants.OutputFormatTable, "output format (table, json, yaml, jsonl)")
	rootCmd.PersistentFlags().Duration(commands.KeyTimeout, constants.DefaultHTTPTimeout, "HTTP request timeout")
	rootCmd.PersistentFlags().BoolP(commands.KeyVerbose, "v", false, "verbose output")

	// Bind flags to viper
	for _, key := range []string{
		commands.KeyConfig, commands.KeyBaseURL, commands.KeyOutput, commands.KeyTimeout, commands.KeyVerbose,
	} {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewDatasetCommand())
}

func initConfig() {
	cfgFile := viper.GetString(commands.KeyConfig)

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.sgdata/config.yml
		viper.AddConfigPath(filepath.Join(home, ".sgdata"))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// SGDATA_BASE_URL, SGDATA_OUTPUT, ...
	viper.SetEnvPrefix("SGDATA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool(commands.KeyVerbose) {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
