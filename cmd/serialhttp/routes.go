package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/searchktools/serialhttp/core"
	"github.com/searchktools/serialhttp/core/http"
	"github.com/searchktools/serialhttp/core/router"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the demo route table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		e := core.NewEngine(core.WithRouterOptions(router.Options{
			Capacity:   cfg.RouteCapacity,
			MaxPathLen: cfg.MaxPathLen,
		}))
		if err := registerDemoRoutes(e); err != nil {
			return err
		}

		for _, r := range e.Registry().Routes() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-7s %s\n", r.Method, r.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}

func hello(c *http.Conn, _ string) {
	_ = c.Respond(http.StatusOK, "hi")
}

func echo(c *http.Conn, body string) {
	_ = c.Respond(http.StatusOK, body)
}

func health(c *http.Conn, _ string) {
	_ = c.Respond(http.StatusOK, "ok")
}

func goodbye(c *http.Conn, _ string) {
	_ = c.Respond(http.StatusOK, "deleted")
}

func registerDemoRoutes(e *core.Engine) error {
	routes := []struct {
		register func(string, http.HandlerFunc) error
		path     string
		handler  http.HandlerFunc
	}{
		{e.GET, "/hello", hello},
		{e.GET, "/health", health},
		{e.POST, "/echo", echo},
		{e.PUT, "/echo", echo},
		{e.DELETE, "/hello", goodbye},
	}

	for _, r := range routes {
		if err := r.register(r.path, r.handler); err != nil {
			return err
		}
	}
	return nil
}
