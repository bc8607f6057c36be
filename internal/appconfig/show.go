package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	if cfg == nil {
		cfg = &Config{}
	}
	fmt.Fprintf(out, "  Listen Address:  %s\n", cfg.ListenAddr())
	fmt.Fprintf(out, "  Invoke Timeout:  %s\n", cfg.InvokeTimeout())
	fmt.Fprintf(out, "  Retry Attempts:  %d\n", cfg.RetryAttempts())
	fmt.Fprintf(out, "  Validation:      %v\n", !cfg.SkipValidation)
	fmt.Fprintf(out, "  Auth Token Set:  %v\n", cfg.AuthToken != "")
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Tools:           %d\n", len(cfg.Tools))
	for _, tool := range cfg.Tools {
		state := "enabled"
		if !tool.Enabled {
			state = "disabled"
		}
		fmt.Fprintf(out, "    - %s (%s) -> %s\n", tool.Name, state, tool.BackendRef)
	}
}
