package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/searchktools/serialhttp/config"
)

// Build info - injected via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "serialhttp",
	Short:         "Minimal serial HTTP server",
	Long:          `serialhttp accepts one connection at a time, parses a single request and dispatches it by method and exact path.`,
	Version:       fmt.Sprintf("%s (%s)", Version, Commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./serialhttp.yaml)")
	config.RegisterFlags(rootCmd.PersistentFlags())
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.Options{File: configFile, Flags: cmd.Flags()})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
