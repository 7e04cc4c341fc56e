package cli

import (
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/gradebook/internal/app"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(app.BuildVersion)
		},
	}
}
