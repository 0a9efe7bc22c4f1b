package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/coda-client/internal/constants"
	"github.com/fivetwenty-io/coda-client/internal/logging"
	"github.com/fivetwenty-io/coda-client/pkg/coda"
	"github.com/fivetwenty-io/coda-client/pkg/codaclient"
)

// Viper keys.
const (
	apiKey     = "api"
	tokenKey   = "token"
	outputKey  = "output"
	verboseKey = "verbose"
	debugKey   = "debug"
	retriesKey = "retries"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated, run 'coda login' or set CODA_TOKEN")
	ErrUnknownConfigKey = errors.New("unknown config key")
)

// Config is the persisted CLI configuration.
type Config struct {
	API     string `json:"api,omitempty"     yaml:"api,omitempty"`
	Token   string `json:"token,omitempty"   yaml:"token,omitempty"`
	Output  string `json:"output,omitempty"  yaml:"output,omitempty"`
	Retries int    `json:"retries,omitempty" yaml:"retries,omitempty"`
}

// configKeys lists the keys accepted by "config set" and "config unset".
var configKeys = []string{apiKey, tokenKey, outputKey, retriesKey}

func loadConfig() *Config {
	return &Config{
		API:     viper.GetString(apiKey),
		Token:   viper.GetString(tokenKey),
		Output:  viper.GetString(outputKey),
		Retries: viper.GetInt(retriesKey),
	}
}

// configFilePath returns the file viper read, or ~/.coda/config.yml.
func configFilePath() (string, error) {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".coda", "config.yml"), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	viper.Set(apiKey, config.API)
	viper.Set(tokenKey, config.Token)
	viper.Set(outputKey, config.Output)
	viper.Set(retriesKey, config.Retries)

	return nil
}

// CreateClient builds a client from the merged flag, environment and file
// configuration.
func CreateClient(cmd *cobra.Command) (coda.Client, error) {
	config := loadConfig()
	if config.Token == "" {
		return nil, ErrNotAuthenticated
	}

	return newClient(cmd, config.API, config.Token)
}

func newClient(cmd *cobra.Command, api, token string) (coda.Client, error) {
	clientConfig := &coda.Config{
		BaseURL:  api,
		APIToken: token,
		RetryMax: viper.GetInt(retriesKey),
	}

	verbose, debug := viper.GetBool(verboseKey), viper.GetBool(debugKey)

	if verbose || debug {
		logger := logging.New("coda", cmd.ErrOrStderr(), "debug")
		clientConfig.Logger = logger

		// --verbose logs each API call; --debug adds transport detail
		// (full URLs, timings, retry attempts).
		chain := coda.NewInterceptorChain()
		chain.AddRequestInterceptor(coda.LoggingInterceptor(logger))
		chain.AddResponseInterceptor(coda.LoggingResponseInterceptor(logger))
		clientConfig.Interceptors = chain
		clientConfig.Debug = debug
	}

	client, err := codaclient.New(cmd.Context(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "View and modify the settings stored in ~/.coda/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			shown := *config
			if shown.Token != "" {
				shown.Token = Masked
			}

			path, _ := configFilePath()

			return renderRecord(cmd, &shown, [][2]string{
				{"File", path},
				{"API", valueOr(shown.API, constants.DefaultBaseURL)},
				{"Token", valueOr(shown.Token, NotAvailable)},
				{"Output", valueOr(shown.Output, constants.FormatTable)},
				{"Retries", fmt.Sprint(shown.Retries)},
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + strings.Join(configKeys, ", "),
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], "")
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case apiKey:
		if value != "" {
			value = codaclient.NormalizeBaseURL(value)
		}

		config.API = value
	case tokenKey:
		config.Token = strings.TrimSpace(value)
	case outputKey:
		if value != "" && !isOutputFormat(value) {
			return fmt.Errorf("%w: %s", ErrUnsupportedOutputFormat, value)
		}

		config.Output = value
	case retriesKey:
		retries := 0

		if value != "" {
			parsed, err := strconv.Atoi(value)
			if err != nil || parsed < 0 {
				return fmt.Errorf("%w: retries must be a non-negative integer", ErrInvalidValue)
			}

			retries = parsed
		}

		config.Retries = retries
	default:
		keys := append([]string(nil), configKeys...)
		sort.Strings(keys)

		return fmt.Errorf("%w: %s (valid keys: %s)", ErrUnknownConfigKey, key, strings.Join(keys, ", "))
	}

	return nil
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
