// Package main is the entry point of the docapi server.
package main

import (
	"fmt"
	"os"

	"github.com/allkit/docapi/config"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yaoapp/kun/log"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "docapi",
	Short: "Document conversion web API",
	Long: `docapi converts uploaded documents over HTTP: PDF organize, merge, split and
compress, PDF export to images and Office formats, Office and image conversion
to PDF, image format conversion and background removal.

External engines (soffice, gs, pdftoppm, pdftotext, mutool, rembg) are
configured in docapi.yml or with DOCAPI_* environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./"+config.DefaultFile+")")
}

// loadConfig reads the configuration and applies the log level and gin mode
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(file)
	if err != nil {
		return cfg, err
	}

	level, err := cfg.Level()
	if err != nil {
		return cfg, err
	}
	log.SetLevel(level)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
