package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stainley/CareerLaunch/pkg/qrcode"
)

func newSignupCmd(a *app) *cobra.Command {
	var email, password, qrPath string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new account and provision its authenticator",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			in := bufio.NewReader(cmd.InOrStdin())

			var err error
			if email == "" {
				if email, err = ask(out, in, "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = ask(out, in, "Password: "); err != nil {
					return err
				}
			}

			enrollment, err := a.client.Signup(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Account created, user ID %s.\n", enrollment.UserID)

			if enrollment.ProvisioningURI != "" {
				path := qrPath
				if path == "" {
					path = filepath.Join(os.TempDir(), "careerlaunch-totp.png")
				}
				png, err := qrcode.Provisioning(enrollment.ProvisioningURI, 0)
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, png, 0o600); err != nil {
					return err
				}
				fmt.Fprintf(out, "Scan the QR code at %s with your authenticator app,\nor add the account manually:\n  %s\n", path, enrollment.ProvisioningURI)
			}

			fmt.Fprintln(out, "Activate the account from the confirmation email, then run 'careerlaunch login'.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	cmd.Flags().StringVar(&qrPath, "qr", "", "where to write the enrollment QR code PNG")
	return cmd
}
