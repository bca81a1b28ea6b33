package main

import (
	"github.com/spf13/cobra"

	"attendancify/internal/app"
	"attendancify/internal/infrastructure"
)

func newServeCmd(c *cli) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				c.cfg.Server.Port = port
			}

			logger, err := infrastructure.InitializeLogger(c.cfg.Logging)
			if err != nil {
				return err
			}
			defer infrastructure.CloseLogFile()

			application, err := app.NewApplication(c.cfg, logger)
			if err != nil {
				return err
			}
			return application.Run(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	return cmd
}
