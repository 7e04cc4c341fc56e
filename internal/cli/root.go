package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/gradebook/internal/app"
)

// NewRootCmd creates the root command. Running it without a subcommand
// starts the server.
func NewRootCmd() *cobra.Command {
	cfg := app.LoadConfig()

	rootCmd := &cobra.Command{
		Use:   "gradebook",
		Short: "Student performance records behind a role-gated login",
		Long: `gradebook serves a login and registration surface on a local address.
The first successful sign-in closes it and opens the student records
surface for that role: admins can add and delete records, users can
view and plot them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, cfg)
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.DatabaseFile, "db", cfg.DatabaseFile, "SQLite database file (env: GRADEBOOK_DATABASE_FILE)")
	rootCmd.PersistentFlags().StringVar(&cfg.PepperFile, "pepper-file", cfg.PepperFile, "Password pepper file (env: GRADEBOOK_PEPPER_FILE)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error (env: LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text, json (env: LOG_FORMAT)")
	rootCmd.Flags().StringVar(&cfg.ListenAddr, "addr", cfg.ListenAddr, "HTTP listen address (env: GRADEBOOK_LISTEN_ADDR)")

	rootCmd.AddCommand(newServeCmd(&cfg))
	rootCmd.AddCommand(newRegisterCmd(&cfg))
	rootCmd.AddCommand(newHealthCmd(&cfg))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
