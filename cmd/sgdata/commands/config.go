package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fivetwenty-io/sgdata/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Configuration keys, shared by flags, the config file and SGDATA_* variables.
const (
	KeyBaseURL = "base-url"
	KeyOutput  = "output"
	KeyTimeout = "timeout"
	KeyVerbose = "verbose"
	KeyConfig  = "config"
)

// Config represents the CLI configuration.
type Config struct {
	BaseURL string `json:"base-url" yaml:"base-url"`
	Output  string `json:"output"   yaml:"output"`
	Timeout string `json:"timeout"  yaml:"timeout"`
	Verbose bool   `json:"verbose"  yaml:"verbose"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in $HOME/.sgdata/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration after applying the config file, environment and flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			config := loadConfig()

			if format != constants.OutputFormatTable {
				return renderValue(cmd.OutOrStdout(), format, config)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Property", "Value")

			_ = table.Append([]string{"Base URL", config.BaseURL})
			_ = table.Append([]string{"Output", config.Output})
			_ = table.Append([]string{"Timeout", config.Timeout})
			_ = table.Append([]string{"Verbose", strconv.FormatBool(config.Verbose)})

			if file := viper.ConfigFileUsed(); file != "" {
				_ = table.Append([]string{"Config File", file})
			}

			err = table.Render()
			if err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Persist a configuration value.

Keys: base-url, output, timeout, verbose`,
		Args: cobra.ExactArgs(2), //nolint:mnd // key and value
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			config := loadConfig()

			err := setConfigValue(config, key, value)
			if err != nil {
				return err
			}

			path, err := saveConfig(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s in %s\n", key, value, path)

			return nil
		},
	}
}

// loadConfig reads the effective configuration from viper.
func loadConfig() *Config {
	timeout := viper.GetDuration(KeyTimeout)
	if timeout == 0 {
		timeout = constants.DefaultHTTPTimeout
	}

	output := viper.GetString(KeyOutput)
	if output == "" {
		output = constants.OutputFormatTable
	}

	return &Config{
		BaseURL: viper.GetString(KeyBaseURL),
		Output:  output,
		Timeout: timeout.String(),
		Verbose: viper.GetBool(KeyVerbose),
	}
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case KeyBaseURL:
		config.BaseURL = value
	case KeyOutput:
		err := validateOutputFormat(value)
		if err != nil {
			return err
		}

		config.Output = value
	case KeyTimeout:
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", value, err)
		}

		config.Timeout = timeout.String()
	case KeyVerbose:
		verbose, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid verbose value %q: %w", value, err)
		}

		config.Verbose = verbose
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	viper.Set(key, value)

	return nil
}

// configFilePath returns the file config set writes to.
func configFilePath() (string, error) {
	if file := viper.ConfigFileUsed(); file != "" {
		return file, nil
	}

	if file := viper.GetString(KeyConfig); file != "" {
		return file, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".sgdata", "config.yml"), nil
}

func saveConfig(config *Config) (string, error) {
	configFile, err := configFilePath()
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configFile, nil
}
