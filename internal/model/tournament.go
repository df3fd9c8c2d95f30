package model

// TournamentStatus is the lifecycle state of a tournament
type TournamentStatus string

const (
	StatusPlanned   TournamentStatus = "planned"
	StatusStarted   TournamentStatus = "started"
	StatusFrozen    TournamentStatus = "frozen"
	StatusEnded     TournamentStatus = "ended"
	StatusCancelled TournamentStatus = "cancelled"
)

// IsTerminal reports whether no further lifecycle changes are possible
func (s TournamentStatus) IsTerminal() bool {
	return s == StatusEnded || s == StatusCancelled
}

// TournamentPreset selects the pairing system a tournament is created with
type TournamentPreset string

const (
	PresetSwiss TournamentPreset = "swiss"
	PresetFluid TournamentPreset = "fluid"
)

// Valid reports whether the preset is known
func (p TournamentPreset) Valid() bool {
	return p == PresetSwiss || p == PresetFluid
}

// TournamentSeed is everything needed to build a tournament's initial state
type TournamentSeed struct {
	ID     TournamentID     `json:"id"`
	Name   string           `json:"name"`
	Preset TournamentPreset `json:"preset"`
	Format string           `json:"format"`
}

// LogDocumentVersion is the current version of the log document format
const LogDocumentVersion = 1

// LogDocument is the portable form of a tournament's operation log.
// It is used for storage and for syncing logs between peers.
type LogDocument struct {
	Version int            `json:"version"`
	Seed    TournamentSeed `json:"seed"`
	Ops     []Operation    `json:"ops"`
}

// OpOutcome describes what an applied operation produced
type OpOutcome struct {
	Player      *PlayerID   `json:"player,omitempty"`
	Rounds      []RoundID   `json:"rounds,omitempty"`
	RoundStatus RoundStatus `json:"round_status,omitempty"`
}

// Score is a player's standing value. Higher scores rank first.
type Score struct {
	MatchPoints float64 `json:"match_points"`
	GamePoints  float64 `json:"game_points"`
	MWP         float64 `json:"mwp"`
	GWP         float64 `json:"gwp"`
	OppMWP      float64 `json:"opp_mwp"`
	OppGWP      float64 `json:"opp_gwp"`
}

// Standing is one ranked row of the standings
type Standing struct {
	Rank     int      `json:"rank"`
	PlayerID PlayerID `json:"player_id"`
	Name     string   `json:"name"`
	Score    Score    `json:"score"`
}

// Standings is the ranked list of active players
type Standings struct {
	Entries []Standing `json:"entries"`
}
