package main

import (
	"github.com/shapiromatron/hawc-sub006/internal/webserver"
	"github.com/spf13/cobra"
)

var (
	servePort  int
	reportsDir string
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve finished session reports over a read-only JSON API",
		RunE:  serveCommandE,
	}

	cmd.Flags().IntVar(&servePort, "port", 3000, "Port to listen on")
	cmd.Flags().StringVar(&reportsDir, "reports-dir", ".", "Directory containing session report JSON files")

	return cmd
}

func serveCommandE(cmd *cobra.Command, _ []string) error {
	srv, err := webserver.New(webserver.Config{
		Port:       servePort,
		ReportsDir: reportsDir,
	})
	if err != nil {
		return err
	}
	return srv.ListenAndServe(cmd.Context())
}
