// internal/cli/show_config.go
package toolgate

import (
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/toolgate/internal/appconfig"
)

var showConfigRaw bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the gateway configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		file := ""
		if currentConfig != nil {
			file = currentConfig.ConfigPath
		}
		if showConfigRaw {
			pp.Println(currentConfig)
			return nil
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), file, currentConfig)
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&showConfigRaw, "raw", false, "dump the full configuration struct")
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
