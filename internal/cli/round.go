package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/tourney/internal/api/response"
)

func newRoundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "round",
		Short: "Round queries",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <tournament>",
		Short: "List rounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.RoundList

			if err := client.Get(cmd.Context(), tournamentPath(args[0])+"/rounds", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <tournament> <round>",
		Short: "Show a round by ID or match number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Round

			if err := client.Get(cmd.Context(), tournamentPath(args[0])+"/rounds/"+args[1], &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}
