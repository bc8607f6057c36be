// internal/cli/root.go
package toolgate

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/toolgate/internal/appconfig"
	"github.com/mwiater/toolgate/internal/builtin"
	"github.com/mwiater/toolgate/internal/dispatch"
	"github.com/mwiater/toolgate/internal/invoke"
	"github.com/mwiater/toolgate/internal/registry"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "toolgate",
	Short: "toolgate — a configuration-driven MCP tool-calling gateway",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconfig.Load(cfgFile)
		if err != nil {
			// Commands that need tools fail later with a clear message;
			// config show still works against defaults.
			currentConfig = nil
			return nil
		}

		// Flags override file values when explicitly set.
		if cmd.Flags().Changed("listen") {
			cfg.Listen = viper.GetString("listen")
		}
		if cmd.Flags().Changed("logFile") {
			cfg.LogFile = viper.GetString("logFile")
		}
		if cmd.Flags().Changed("debug") {
			cfg.Debug = viper.GetBool("debug")
		}
		if cmd.Flags().Changed("skipValidation") {
			cfg.SkipValidation = viper.GetBool("skipValidation")
		}

		currentConfig = &cfg
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	rootCmd.Version = appVersion
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default config/config.json)")

	rootCmd.PersistentFlags().String("listen", "", "HTTP listen address (e.g., :8089)")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("skipValidation", false, "skip argument schema validation")

	_ = viper.BindPFlag("listen", rootCmd.PersistentFlags().Lookup("listen"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("skipValidation", rootCmd.PersistentFlags().Lookup("skipValidation"))
}

// getConfig returns the loaded gateway configuration, or an error when no
// configuration file could be found.
func getConfig() (*appconfig.Config, error) {
	if currentConfig == nil {
		return nil, fmt.Errorf("no configuration loaded; create %s or pass --config", appconfig.DefaultConfigPath)
	}
	return currentConfig, nil
}

// buildDispatcher assembles the full gateway stack from the configuration:
// registry, backends behind a scheme mux, retry policy, dispatcher.
func buildDispatcher(cfg *appconfig.Config, transport string) (*dispatch.Dispatcher, error) {
	blob, err := cfg.RegistryDocument()
	if err != nil {
		return nil, fmt.Errorf("encode tool configuration: %w", err)
	}
	reg, err := registry.Load(blob)
	if err != nil {
		return nil, err
	}

	local := invoke.NewLocal()
	builtin.Register(local)

	mux := invoke.NewMux().
		Handle("local", local).
		Handle("http", invoke.NewHTTP(nil)).
		Handle("https", invoke.NewHTTP(nil))

	inv := invoke.WithRetries(mux, cfg.RetryAttempts())

	d := dispatch.New(reg, inv, dispatch.Config{
		DefaultTimeout: cfg.InvokeTimeout(),
		SkipValidation: cfg.SkipValidation,
		ServerName:     "toolgate",
		ServerVersion:  appVersion,
		Transport:      transport,
	})
	return d, nil
}
