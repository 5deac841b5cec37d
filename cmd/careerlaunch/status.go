package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			state := a.flow.State()
			decision := a.gate.Evaluate("/status")

			if a.output == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]string{
					"state":   state.Name(),
					"session": decision.Verdict.String(),
				})
			}

			fmt.Fprintf(out, "state:   %s\nsession: %s\n", state.Name(), decision.Verdict)
			return nil
		},
	}
}
