// internal/cli/serve.go
package toolgate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mwiater/toolgate/internal/appconfig"
	"github.com/mwiater/toolgate/internal/dispatch"
	"github.com/mwiater/toolgate/internal/logging"
	"github.com/mwiater/toolgate/internal/server"
	"github.com/mwiater/toolgate/internal/stdio"
)

var serveStdio bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gateway (HTTP by default, stdio with --stdio)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if serveStdio {
			return runStdio(cfg)
		}
		return runHTTP(cfg)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveStdio, "stdio", false, "serve JSON-RPC over stdio with Content-Length framing")
	rootCmd.AddCommand(serveCmd)
}

func runStdio(cfg *appconfig.Config) error {
	// stdout carries the protocol; logs go to the file only.
	if err := logging.InitQuiet(cfg.LogFilePath()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logging.Close()

	d, err := buildDispatcher(cfg, "stdio")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.LogEvent("stdio gateway started: tools=%d registryVersion=%d", d.Registry().Len(), d.Registry().Version())
	return stdio.New(d, os.Stdin, os.Stdout).Run(ctx)
}

func runHTTP(cfg *appconfig.Config) error {
	if err := logging.Init(cfg.LogFilePath()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logging.Close()

	d, err := buildDispatcher(cfg, "http")
	if err != nil {
		return err
	}

	srv := server.New(server.Config{Addr: cfg.ListenAddr(), Token: cfg.AuthToken}, d)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reloads := make(chan os.Signal, 1)
	signal.Notify(reloads, syscall.SIGHUP)
	defer signal.Stop(reloads)
	go watchReloads(ctx, reloads, cfg.ConfigPath, d)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	color.Green("toolgate listening on %s (%d tools, registry v%d)", cfg.ListenAddr(), d.Registry().Len(), d.Registry().Version())
	logging.LogEvent("http gateway started: addr=%s tools=%d", cfg.ListenAddr(), d.Registry().Len())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// watchReloads swaps the registry on SIGHUP. A bad config file keeps the
// previous registry active.
func watchReloads(ctx context.Context, reloads <-chan os.Signal, configPath string, d *dispatch.Dispatcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-reloads:
			fresh, err := appconfig.Load(configPath)
			if err != nil {
				logging.LogEvent("reload failed: %v", err)
				continue
			}
			blob, err := fresh.RegistryDocument()
			if err != nil {
				logging.LogEvent("reload failed: %v", err)
				continue
			}
			if err := d.Registry().Reload(blob); err != nil {
				logging.LogEvent("reload rejected, previous registry stays active: %v", err)
				continue
			}
			logging.LogEvent("registry reloaded: tools=%d registryVersion=%d", d.Registry().Len(), d.Registry().Version())
		}
	}
}
