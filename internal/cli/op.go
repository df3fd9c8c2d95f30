package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/tourney/internal/api/request"
	"github.com/mcoot/tourney/internal/api/response"
	"github.com/mcoot/tourney/internal/model"
)

func newOpCmd() *cobra.Command {
	var opID, at string

	cmd := &cobra.Command{
		Use:   "op <tournament> <kind> [data]",
		Short: "Submit an operation",
		Long: `Submit an operation to a tournament's log.

The data argument is the operation's JSON payload, for example:

  tourney op <tournament> register_player '{"name":"Alice"}'
  tourney op <tournament> pair_round`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.SubmitOperationRequest{Kind: model.OpKind(args[1])}
			if len(args) == 3 {
				if !json.Valid([]byte(args[2])) {
					return fmt.Errorf("data is not valid JSON")
				}
				req.Data = json.RawMessage(args[2])
			}
			if opID != "" {
				id, err := model.ParseOpID(opID)
				if err != nil {
					return fmt.Errorf("invalid --id: %w", err)
				}
				req.ID = &id
			}
			if at != "" {
				ts, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				req.Timestamp = &ts
			}
			var result response.OperationResult

			if err := client.Post(cmd.Context(), tournamentPath(args[0])+"/ops", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&opID, "id", "", "Operation ID (default: assigned by the server)")
	cmd.Flags().StringVar(&at, "at", "", "Operation timestamp, RFC 3339 (default: server time)")

	return cmd
}

func newOpsCmd() *cobra.Command {
	var from, to uint64

	cmd := &cobra.Command{
		Use:   "ops <tournament>",
		Short: "List operations with sequence numbers in [from, to)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if from > 0 {
				query.Set("from", strconv.FormatUint(from, 10))
			}
			if to > 0 {
				query.Set("to", strconv.FormatUint(to, 10))
			}
			path := tournamentPath(args[0]) + "/ops"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}
			var result response.OperationList

			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&from, "from", 0, "First sequence number (default: 1)")
	cmd.Flags().Uint64Var(&to, "to", 0, "Sequence number to stop before (default: end of log)")

	return cmd
}
