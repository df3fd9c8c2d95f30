package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/tourney/internal/api/response"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player queries",
	}

	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerCountsCmd())
	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerRoundsCmd())
	cmd.AddCommand(newPlayerDecksCmd())

	return cmd
}

// playerPath addresses a player by ID or name
func playerPath(tournament, player string) string {
	return tournamentPath(tournament) + "/players/" + url.PathEscape(player)
}

func newPlayerListCmd() *cobra.Command {
	var active bool

	cmd := &cobra.Command{
		Use:   "list <tournament>",
		Short: "List players",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := tournamentPath(args[0]) + "/players"
			if active {
				path += "?active=true"
			}
			var result response.PlayerList

			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&active, "active", false, "Only players who have not dropped")
	return cmd
}

func newPlayerCountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counts <tournament>",
		Short: "Count players by status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.PlayerCounts

			if err := client.Get(cmd.Context(), tournamentPath(args[0])+"/players/counts", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <tournament> <player>",
		Short: "Show a player by ID or name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Player

			if err := client.Get(cmd.Context(), playerPath(args[0], args[1]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newPlayerRoundsCmd() *cobra.Command {
	var latest bool

	cmd := &cobra.Command{
		Use:   "rounds <tournament> <player>",
		Short: "List a player's rounds",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := playerPath(args[0], args[1]) + "/rounds"
			if latest {
				var result response.Round
				if err := client.Get(cmd.Context(), path+"/latest", &result); err != nil {
					return err
				}
				output(cmd).Print(result)
				return nil
			}

			var result response.RoundList
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&latest, "latest", false, "Only the most recent round")
	return cmd
}

func newPlayerDecksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decks <tournament> <player>",
		Short: "Show a player's registered decks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Decks

			if err := client.Get(cmd.Context(), playerPath(args[0], args[1])+"/decks", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
