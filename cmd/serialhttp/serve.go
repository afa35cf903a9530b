package main

import (
	"github.com/spf13/cobra"

	"github.com/searchktools/serialhttp/app"
	"github.com/searchktools/serialhttp/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the server with the demo routes",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Level:     cfg.Log.SlogLevel(),
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
	})

	application := app.New(cfg, logger)
	if err := registerDemoRoutes(application.Engine()); err != nil {
		return err
	}

	return application.Run(cmd.Context())
}
