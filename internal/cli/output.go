package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/tourney/internal/api/response"
	"github.com/mcoot/tourney/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Tournament:
		o.printTournament(v)
	case response.TournamentList:
		o.printTournamentList(v)
	case model.Standings:
		o.printStandings(v)
	case response.OperationResult:
		o.printOperationResult(v)
	case response.OperationList:
		o.printOperations(v.Ops)
	case model.LogDocument:
		o.printLogDocument(v)
	case response.SyncReport:
		o.printSyncReport(v)
	case response.Player:
		o.printPlayer(v)
	case response.PlayerList:
		o.printPlayerList(v)
	case response.PlayerCounts:
		o.printPlayerCounts(v)
	case response.Round:
		o.printRound(v)
	case response.RoundList:
		o.printRoundList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printTournament(t response.Tournament) {
	fmt.Fprintf(o.w, "Tournament: %s (%s)\n", t.Name, t.ID)
	if t.Format != "" {
		fmt.Fprintf(o.w, "Format: %s\n", t.Format)
	}
	fmt.Fprintf(o.w, "Status: %s\n", t.Status)
	fmt.Fprintf(o.w, "Pairing: %s, Scoring: %s\n", t.Pairing, t.Scoring)
	fmt.Fprintf(o.w, "Registration: %s\n", openClosed(t.RegOpen))
	fmt.Fprintf(o.w, "Players: %d, Rounds: %d\n", t.PlayerCount, t.RoundCount)
}

func (o *Output) printTournamentList(l response.TournamentList) {
	if len(l.Tournaments) == 0 {
		fmt.Fprintln(o.w, "No tournaments")
		return
	}
	for _, t := range l.Tournaments {
		fmt.Fprintf(o.w, "%s  %-10s %s (%d players)\n", t.ID, t.Status, t.Name, t.PlayerCount)
	}
}

func (o *Output) printStandings(s model.Standings) {
	if len(s.Entries) == 0 {
		fmt.Fprintln(o.w, "No standings")
		return
	}
	fmt.Fprintf(o.w, "%4s  %-20s %6s %6s %6s %6s\n", "Rank", "Player", "MP", "OMW%", "GW%", "OGW%")
	for _, e := range s.Entries {
		fmt.Fprintf(o.w, "%4d  %-20s %6.0f %6.2f %6.2f %6.2f\n",
			e.Rank, e.Name, e.Score.MatchPoints, e.Score.OppMWP*100, e.Score.GWP*100, e.Score.OppGWP*100)
	}
}

func (o *Output) printOperationResult(r response.OperationResult) {
	fmt.Fprintf(o.w, "Applied #%d %s (%s)\n", r.Operation.Seq, r.Operation.Action.Kind(), r.Operation.ID)
	if r.Outcome.Player != nil {
		fmt.Fprintf(o.w, "Player: %s\n", r.Outcome.Player)
	}
	for _, id := range r.Outcome.Rounds {
		fmt.Fprintf(o.w, "Round: %s\n", id)
	}
	if r.Outcome.RoundStatus != "" {
		fmt.Fprintf(o.w, "Round status: %s\n", r.Outcome.RoundStatus)
	}
}

func (o *Output) printOperations(ops []model.Operation) {
	if len(ops) == 0 {
		fmt.Fprintln(o.w, "No operations")
		return
	}
	for _, op := range ops {
		fmt.Fprintf(o.w, "%5d  %s  %-18s %s\n",
			op.Seq, op.Timestamp.Format("2006-01-02 15:04:05"), op.Action.Kind(), op.ID)
	}
}

func (o *Output) printLogDocument(doc model.LogDocument) {
	fmt.Fprintf(o.w, "Tournament: %s (%s)\n", doc.Seed.Name, doc.Seed.ID)
	fmt.Fprintf(o.w, "Preset: %s\n", doc.Seed.Preset)
	fmt.Fprintf(o.w, "Operations (%d):\n", len(doc.Ops))
	o.printOperations(doc.Ops)
}

func (o *Output) printSyncReport(r response.SyncReport) {
	fmt.Fprintf(o.w, "Common prefix: %d\n", r.CommonPrefix)
	fmt.Fprintf(o.w, "Added: %d\n", len(r.Added))
	for _, id := range r.Added {
		fmt.Fprintf(o.w, "  + %s\n", id)
	}
	if len(r.Conflicts) > 0 {
		fmt.Fprintf(o.w, "Conflicts: %d\n", len(r.Conflicts))
		for _, c := range r.Conflicts {
			fmt.Fprintf(o.w, "  ! %s %s: %s\n", c.Op.ID, c.Op.Action.Kind(), c.Err)
		}
	}
}

func (o *Output) printPlayer(p response.Player) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.Name, p.ID)
	if p.GameName != "" {
		fmt.Fprintf(o.w, "Game name: %s\n", p.GameName)
	}
	fmt.Fprintf(o.w, "Status: %s\n", p.Status)
	if len(p.Decks) > 0 {
		fmt.Fprintf(o.w, "Decks: %s\n", strings.Join(p.Decks, ", "))
	}
}

func (o *Output) printPlayerList(l response.PlayerList) {
	if len(l.Players) == 0 {
		fmt.Fprintln(o.w, "No players")
		return
	}
	for _, p := range l.Players {
		fmt.Fprintf(o.w, "%s  %-11s %s\n", p.ID, p.Status, p.Name)
	}
}

func (o *Output) printPlayerCounts(c response.PlayerCounts) {
	fmt.Fprintf(o.w, "Registered: %d\n", c.Registered)
	fmt.Fprintf(o.w, "Checked in: %d\n", c.CheckedIn)
	fmt.Fprintf(o.w, "Dropped: %d\n", c.Dropped)
	fmt.Fprintf(o.w, "Active: %d\n", c.Active)
}

func (o *Output) printRound(r response.Round) {
	fmt.Fprintf(o.w, "Match %d (%s)\n", r.MatchNumber, r.ID)
	if r.TableNumber != 0 {
		fmt.Fprintf(o.w, "Table: %d\n", r.TableNumber)
	}
	fmt.Fprintf(o.w, "Status: %s\n", r.Status)
	if r.IsBye {
		fmt.Fprintln(o.w, "Bye")
	}
	fmt.Fprintf(o.w, "Players: %s\n", strings.Join(r.Players, ", "))
	if r.Winner != "" {
		fmt.Fprintf(o.w, "Winner: %s\n", r.Winner)
	}
	fmt.Fprintf(o.w, "Ends: %s\n", r.EndsAt.Format("15:04:05"))
}

func (o *Output) printRoundList(l response.RoundList) {
	if len(l.Rounds) == 0 {
		fmt.Fprintln(o.w, "No rounds")
		return
	}
	for _, r := range l.Rounds {
		fmt.Fprintf(o.w, "#%-4d %-11s %s\n", r.MatchNumber, r.Status, strings.Join(r.Players, " vs "))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}

func openClosed(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}
