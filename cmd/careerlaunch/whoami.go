package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stainley/CareerLaunch/pkg/idp"
	"github.com/stainley/CareerLaunch/pkg/sessiongate"
)

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if d := a.gate.Evaluate("/whoami"); d.Verdict != sessiongate.Allowed {
				return errors.New("not signed in, run 'careerlaunch login'")
			}

			p, err := a.profile.Current(cmd.Context())
			if err != nil {
				if errors.Is(err, idp.ErrUnauthorized) {
					return errors.New("session expired, run 'careerlaunch login'")
				}
				return err
			}

			if a.output == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}

			fmt.Fprintf(out, "%s %s <%s>\n", p.FirstName, p.LastName, p.Email)
			if p.ProfessionalSummary != "" {
				fmt.Fprintln(out, p.ProfessionalSummary)
			}
			if p.Address.City != "" || p.Address.Country != "" {
				fmt.Fprintf(out, "%s, %s\n", p.Address.City, p.Address.Country)
			}
			return nil
		},
	}
}
