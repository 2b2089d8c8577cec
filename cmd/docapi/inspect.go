package main

import (
	"fmt"
	"sort"

	"github.com/allkit/docapi/api"
	"github.com/allkit/docapi/workspace"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the status of the external conversion engines",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		workspaces, err := workspace.NewManager(cfg.Workspace.Root)
		if err != nil {
			return err
		}

		tools := api.New(cfg, workspaces).Tools()
		names := make([]string, 0, len(tools))
		for name := range tools {
			names = append(names, name)
		}
		sort.Strings(names)

		missing := 0
		for _, name := range names {
			status := tools[name]
			if status.Available {
				color.Green("  %-12s %s", name, status.Version)
				fmt.Printf("  %-12s %s\n", "", status.Path)
				continue
			}
			missing++
			color.Red("  %-12s not available", name)
			fmt.Printf("  %-12s %s (%s)\n", "", status.Path, status.ConfigKey)
			if status.Error != "" {
				color.White("  %-12s %s", "", status.Error)
			}
		}

		if missing > 0 {
			color.Yellow("\n%d of %d engines are missing, the routes using them will fail", missing, len(names))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
