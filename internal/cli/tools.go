// internal/cli/tools.go
package toolgate

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mwiater/toolgate/internal/util"
)

const descriptionWidth = 60

var (
	toolNameStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	toolDisabledStyle = lipgloss.NewStyle().Faint(true)
	toolRefStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Inspect the configured tool registry",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tools the gateway exposes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, def := range cfg.Tools {
			name := toolNameStyle.Render(def.Name)
			if !def.Enabled {
				name = toolDisabledStyle.Render(def.Name + " (disabled)")
			}
			fmt.Fprintf(out, "%s %s %s\n", name, "->", toolRefStyle.Render(def.BackendRef))
			if desc := strings.TrimSpace(def.Description); desc != "" {
				for _, line := range strings.Split(util.WrapToWidth(desc, descriptionWidth), "\n") {
					fmt.Fprintf(out, "    %s\n", line)
				}
			}
			if required := requiredFields(def.InputSchema); len(required) > 0 {
				fmt.Fprintf(out, "    required: %s\n", strings.Join(required, ", "))
			}
		}
		return nil
	},
}

func requiredFields(schema map[string]any) []string {
	raw, ok := schema["required"].([]any)
	if !ok {
		return nil
	}
	fields := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			fields = append(fields, s)
		}
	}
	return fields
}

func init() {
	toolsCmd.AddCommand(toolsListCmd)
	rootCmd.AddCommand(toolsCmd)
}
