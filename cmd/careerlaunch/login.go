package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/stainley/CareerLaunch/pkg/authflow"
	"github.com/stainley/CareerLaunch/pkg/idp"
	"github.com/stainley/CareerLaunch/pkg/qrcode"
	"github.com/stainley/CareerLaunch/pkg/statemachine"
)

const (
	twoFactorAttempts = 3
	callbackTimeout   = 5 * time.Minute
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password, qrPath string
	var browser bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and establish an authenticated session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			in := bufio.NewReader(cmd.InOrStdin())

			if _, ok := a.flow.State().(authflow.Authenticated); ok {
				fmt.Fprintln(out, "Already signed in.")
				return nil
			}

			// The browser route skips the credentials endpoints: the
			// provider owns the login UI and comes back with a code.
			if browser {
				st, err := a.runRedirectLeg(ctx, cmd)
				if err != nil {
					return err
				}
				return a.reportSignIn(ctx, cmd, st)
			}

			var err error
			if username == "" {
				if username, err = ask(out, in, "Username: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = ask(out, in, "Password: "); err != nil {
					return err
				}
			}

			st, err := a.flow.SubmitCredentials(ctx, username, password)
			if err != nil {
				return loginError(err)
			}

			if pending, ok := st.(authflow.TwoFactorPending); ok {
				st, err = a.runTwoFactor(ctx, cmd, in, pending.Challenge, qrPath)
				if err != nil {
					return err
				}
			}

			return a.reportSignIn(ctx, cmd, st)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")
	cmd.Flags().StringVar(&qrPath, "qr", "", "where to write the enrollment QR code PNG")
	cmd.Flags().BoolVar(&browser, "browser", false, "sign in through the provider's hosted login page (OAuth redirect)")
	return cmd
}

// runTwoFactor walks the TOTP dialogue: render the enrollment QR on first
// login, then prompt for the 6-digit code with a bounded number of retries.
func (a *app) runTwoFactor(ctx context.Context, cmd *cobra.Command, in *bufio.Reader, ch authflow.TwoFactorChallenge, qrPath string) (statemachine.State, error) {
	out := cmd.OutOrStdout()

	if !ch.Enrolled {
		path := qrPath
		if path == "" {
			path = filepath.Join(os.TempDir(), "careerlaunch-totp.png")
		}
		png, err := qrcode.Provisioning(ch.ProvisioningURI, 0)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, png, 0o600); err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "Two-factor enrollment required.\nScan the QR code at %s with your authenticator app,\nor add the account manually:\n  %s\n", path, ch.ProvisioningURI)
	}

	for attempt := 1; ; attempt++ {
		code, err := ask(out, in, "Authenticator code: ")
		if err != nil {
			return nil, err
		}

		st, err := a.flow.VerifyTwoFactor(ctx, code)
		switch {
		case err == nil:
			return st, nil
		case errors.Is(err, idp.ErrInvalidTOTPCode) && attempt < twoFactorAttempts:
			fmt.Fprintln(out, "Invalid code, try again.")
		default:
			return nil, loginError(err)
		}
	}
}

// runRedirectLeg serves the redirect URI locally, points the user's browser
// at the authorize URL, and completes the code exchange when the provider
// calls back.
func (a *app) runRedirectLeg(ctx context.Context, cmd *cobra.Command) (statemachine.State, error) {
	out := cmd.OutOrStdout()

	listener, err := newCallbackListener(a.cfg.RedirectURL, a.log)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "Open this URL in your browser to finish signing in:\n  %s\nWaiting for the provider callback on http://%s%s\n",
		a.flow.BeginOAuthRedirect(), listener.Addr(), listener.path)

	waitCtx, cancel := context.WithTimeout(ctx, callbackTimeout)
	defer cancel()

	query, err := listener.Wait(waitCtx)
	if err != nil {
		return nil, fmt.Errorf("authorization callback: %w", err)
	}

	st, err := a.flow.CompleteOAuthRedirect(ctx, query)
	if err != nil {
		return nil, loginError(err)
	}
	return st, nil
}

func (a *app) reportSignIn(ctx context.Context, cmd *cobra.Command, st statemachine.State) error {
	out := cmd.OutOrStdout()

	if _, ok := st.(authflow.Authenticated); !ok {
		return fmt.Errorf("sign-in did not complete, current state: %s", st.Name())
	}

	if p, err := a.profile.Current(ctx); err == nil {
		fmt.Fprintf(out, "Signed in as %s %s <%s>\n", p.FirstName, p.LastName, p.Email)
	} else {
		fmt.Fprintln(out, "Signed in.")
	}
	return nil
}

// loginError rewrites wire-level sentinels into user-facing messages.
func loginError(err error) error {
	switch {
	case errors.Is(err, idp.ErrInvalidCredentials):
		return errors.New("invalid username or password")
	case errors.Is(err, idp.ErrAccountNotActivated):
		return errors.New("account is not activated yet, check your email")
	case errors.Is(err, idp.ErrInvalidTOTPCode):
		return errors.New("invalid two-factor code")
	case errors.Is(err, authflow.ErrOperationInProgress):
		return errors.New("another sign-in attempt is already running")
	default:
		return err
	}
}
