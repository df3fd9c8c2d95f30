package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/tourney/internal/api/request"
	"github.com/mcoot/tourney/internal/api/response"
	"github.com/mcoot/tourney/internal/model"
)

func newTournamentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tournament",
		Aliases: []string{"t"},
		Short:   "Tournament management commands",
	}

	cmd.AddCommand(newTournamentCreateCmd())
	cmd.AddCommand(newTournamentGetCmd())
	cmd.AddCommand(newTournamentListCmd())
	cmd.AddCommand(newTournamentDeleteCmd())
	cmd.AddCommand(newTournamentStandingsCmd())
	cmd.AddCommand(newTournamentLogCmd())
	cmd.AddCommand(newTournamentImportCmd())
	cmd.AddCommand(newTournamentRollbackCmd())
	cmd.AddCommand(newTournamentSyncCmd())

	return cmd
}

func tournamentPath(id string) string {
	return "/api/v1/tournaments/" + id
}

func newTournamentCreateCmd() *cobra.Command {
	var req request.CreateTournamentRequest
	var preset string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tournament",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Preset = model.TournamentPreset(preset)
			var result response.Tournament

			if err := client.Post(cmd.Context(), "/api/v1/tournaments", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Tournament name (required)")
	cmd.Flags().StringVar(&preset, "preset", string(model.PresetSwiss), "Pairing preset: swiss, fluid")
	cmd.Flags().StringVar(&req.Format, "format", "", "Game format")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTournamentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <tournament>",
		Short: "Show a tournament",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Tournament

			if err := client.Get(cmd.Context(), tournamentPath(args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newTournamentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active tournaments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.TournamentList

			if err := client.Get(cmd.Context(), "/api/v1/tournaments", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newTournamentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <tournament>",
		Short: "Delete a tournament and its stored log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), tournamentPath(args[0])); err != nil {
				return err
			}

			output(cmd).PrintMessage("Deleted " + args[0])
			return nil
		},
	}
}

func newTournamentStandingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standings <tournament>",
		Short: "Show current standings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result model.Standings

			if err := client.Get(cmd.Context(), tournamentPath(args[0])+"/standings", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newTournamentLogCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "log <tournament>",
		Short: "Export the full operation log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc model.LogDocument

			if err := client.Get(cmd.Context(), tournamentPath(args[0])+"/log", &doc); err != nil {
				return err
			}

			if file == "" {
				output(cmd).Print(doc)
				return nil
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(file, data, 0o644); err != nil {
				return fmt.Errorf("failed to write log: %w", err)
			}
			output(cmd).PrintMessage(fmt.Sprintf("Wrote %d operations to %s", len(doc.Ops), file))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Write the log document to a file")
	return cmd
}

// readLogDocument loads an exported log document from disk
func readLogDocument(path string) (model.LogDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.LogDocument{}, err
	}
	var doc model.LogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.LogDocument{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

func newTournamentImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load a tournament from an exported log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readLogDocument(args[0])
			if err != nil {
				return err
			}
			var result response.Tournament

			if err := client.Post(cmd.Context(), "/api/v1/tournaments/import", doc, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newTournamentRollbackCmd() *cobra.Command {
	var to int64

	cmd := &cobra.Command{
		Use:   "rollback <tournament>",
		Short: "Discard every operation after a sequence number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Tournament

			req := request.RollbackRequest{To: to}
			if err := client.Post(cmd.Context(), tournamentPath(args[0])+"/rollback", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&to, "to", 0, "Last sequence number to keep; 0 or less empties the log (required)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newTournamentSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync <tournament> <file>",
		Short: "Merge an exported copy of the log into the server's log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readLogDocument(args[1])
			if err != nil {
				return err
			}
			var result response.SyncReport

			if err := client.Post(cmd.Context(), tournamentPath(args[0])+"/sync", doc, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
