package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAuthCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored QuickBooks access token",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Save an access token to the system credential store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthSet(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := removeToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Access token removed from your system credential store.")
			return nil
		},
	})

	var verify bool
	status := &cobra.Command{
		Use:   "status",
		Short: "Check that an access token is available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !verify {
				return runAuthStatus(cmd.OutOrStdout())
			}
			if err := a.setup(cmd); err != nil {
				return err
			}
			defer a.close()
			return a.runAuthVerify(cmd)
		},
	}
	status.Flags().BoolVar(&verify, "verify", false, "call QuickBooks to confirm the token works")
	cmd.AddCommand(status)

	return cmd
}

func runAuthSet(in io.Reader, out io.Writer) error {
	fmt.Fprint(out, "Enter QuickBooks access token: ")
	token, err := readSecret(in)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)

	if strings.TrimSpace(token) == "" {
		return errors.New("empty access token")
	}
	if err := saveToken(token); err != nil {
		return err
	}
	fmt.Fprintln(out, "Access token saved to your system credential store.")
	return nil
}

func runAuthStatus(out io.Writer) error {
	token, err := loadToken()
	if err != nil {
		return err
	}
	// Never print the token value.
	fmt.Fprintf(out, "Access token loaded (%d chars).\n", len(token))
	return nil
}

func (a *app) runAuthVerify(cmd *cobra.Command) error {
	client, err := a.quickBooksClient()
	if err != nil {
		return err
	}
	company, err := client.Ping(cmd.Context())
	if err != nil {
		return fmt.Errorf("verifying access token: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s (realm %s).\n", company, client.RealmID())
	return nil
}

func readSecret(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok {
		fd := int(f.Fd())
		if term.IsTerminal(fd) {
			value, err := term.ReadPassword(fd)
			if err != nil {
				return "", err
			}
			return string(value), nil
		}
	}

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		if len(line) == 0 {
			return "", err
		}
	}
	return strings.TrimSpace(line), nil
}
