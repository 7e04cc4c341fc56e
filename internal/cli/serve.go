package cli

import (
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/gradebook/internal/app"
)

func newServeCmd(cfg *app.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the login and records surfaces (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, *cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.ListenAddr, "addr", cfg.ListenAddr, "HTTP listen address (env: GRADEBOOK_LISTEN_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, cfg app.Config) error {
	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	cmd.Printf("gradebook listening on http://%s\n", cfg.ListenAddr)
	return application.Run(cmd.Context())
}
