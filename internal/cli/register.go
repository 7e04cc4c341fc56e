package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/gradebook/internal/app"
	"github.com/aussiebroadwan/gradebook/internal/service"
)

func newRegisterCmd(cfg *app.Config) *cobra.Command {
	var username, role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a credential from the terminal",
		Long: `register runs the same registration flow as the web form against the
configured database. The password is read from the first line of stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Print("Password: ")
			password, err := readLine(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			cmd.Println()

			application, err := app.New(*cfg)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			err = application.Register(cmd.Context(), service.RegisterInput{
				Username: username,
				Password: password,
				Role:     role,
			})
			if msg, ok := service.UserMessage(err); ok {
				return errors.New(msg)
			}
			if err != nil {
				return err
			}

			cmd.Println(service.MsgUserRegistered)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&role, "role", "user", "Role: admin or user")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

// readLine returns the first line of r without its line ending.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
