package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/gradebook/internal/app"
	"github.com/aussiebroadwan/gradebook/pkg/gradesdk"
)

func newHealthCmd(cfg *app.Config) *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check a running server's liveness and readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			if server == "" {
				server = "http://" + cfg.ListenAddr
			}
			client := gradesdk.NewClient(server)

			live, err := client.GetLiveness(cmd.Context())
			if err != nil {
				return fmt.Errorf("livez: %w", err)
			}
			cmd.Printf("live:  %s (version %s, up %s)\n", live.Status, live.Version, live.Uptime)

			ready, err := client.GetReadiness(cmd.Context())
			if err != nil {
				return fmt.Errorf("readyz: %w", err)
			}
			database := "unknown"
			if ready.Checks != nil {
				database = ready.Checks.Database
			}
			cmd.Printf("ready: %s (database %s)\n", ready.Status, database)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (default http://<listen addr>)")
	return cmd
}
