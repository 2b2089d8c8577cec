package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/allkit/docapi/api"
	"github.com/allkit/docapi/config"
	"github.com/allkit/docapi/server/http"
	"github.com/allkit/docapi/workspace"
	"github.com/spf13/cobra"
	"github.com/yaoapp/kun/log"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := serveConfig(cmd)
		if err != nil {
			return err
		}

		workspaces, err := workspace.NewManager(cfg.Workspace.Root)
		if err != nil {
			return err
		}

		janitor, err := workspace.NewJanitor(workspaces, cfg.Workspace.Sweep, cfg.Workspace.TTL)
		if err != nil {
			return err
		}
		janitor.Run()
		janitor.Start()
		defer janitor.Stop()

		service := api.New(cfg, workspaces)
		server := http.New(service.Router(), serverOption(cfg))
		warnTools(service)

		// reload re-reads the configuration and swaps in a rebuilt service.
		// The workspace root and sweep schedule are kept until the next start.
		reload := func() {
			next, err := serveConfig(cmd)
			if err != nil {
				log.Error("[Serve] reload failed, keeping the running configuration: %s", err.Error())
				return
			}
			if next.Workspace != cfg.Workspace {
				log.Warn("[Serve] workspace settings changed, restart the process to apply them")
			}

			service := api.New(next, workspaces)
			if err := server.Reload(service.Router(), serverOption(next)); err != nil {
				log.Error("[Serve] reload failed: %s", err.Error())
				return
			}
			warnTools(service)
			log.Info("[Serve] configuration reloaded, mode %s", next.Mode)
		}

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(signals)

		interrupt := make(chan uint8, 1)
		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			file, _ := cmd.Flags().GetString("config")
			go func() {
				if err := config.Watch(file, reload, interrupt); err != nil {
					log.Error("[Serve] can't watch the configuration: %s", err.Error())
				}
			}()
		}

		go func() {
			for sig := range signals {
				if sig == syscall.SIGHUP {
					log.Info("[Serve] reloading")
					reload()
					continue
				}
				log.Info("[Serve] %s received, stopping", sig.String())
				interrupt <- 0
				server.Stop()
				return
			}
		}()

		log.Info("[Serve] mode %s, workspaces in %s", cfg.Mode, workspaces.Root())
		return server.Start()
	},
}

// serveConfig loads the configuration and applies the command line overrides
func serveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("host") {
		cfg.Host, _ = cmd.Flags().GetString("host")
	}
	return cfg, nil
}

func serverOption(cfg config.Config) http.Option {
	return http.Option{
		Host:            cfg.Host,
		Port:            cfg.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}
}

func warnTools(service *api.Service) {
	for name, status := range service.Tools() {
		if !status.Available {
			log.Warn("[Serve] %s is not available (%s), set %s", name, status.Error, status.ConfigKey)
		}
	}
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "listen port (overrides the config)")
	serveCmd.Flags().String("host", "", "listen host (overrides the config)")
	serveCmd.Flags().Bool("watch", false, "reload when the config file changes")
	rootCmd.AddCommand(serveCmd)
}
