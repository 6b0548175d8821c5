package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "stocklens",
	Short: "Descriptive analytics over daily equity price history",
	Long: `StockLens computes returns, moving averages, period aggregates and
correlations over per-symbol CSV price files, and can serve the results
through a small web form.`,
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "path to YAML config")
	rootCmd.AddCommand(analyzeCmd, bestCmd, correlateCmd, serveCmd)
}

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}
