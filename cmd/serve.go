package main

import (
	"github.com/spf13/cobra"
	"github.com/xhad/kbase/pkg/query"
	"github.com/xhad/kbase/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the knowledge base HTTP and websocket API",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		svc, err := newRAG(cmd, d)
		if err != nil {
			return err
		}

		return server.NewWithConfig(server.ServerConfig{
			Addr:     cfg.Server.Addr,
			Asker:    svc,
			Rows:     d.store,
			Answerer: query.NewAnswerer(nil),
		}).ListenAndServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
