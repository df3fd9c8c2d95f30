package tournament

import (
	"fmt"
	"slices"

	"github.com/mcoot/tourney/internal/model"
)

// Apply folds one operation into the tournament. On error the tournament is
// left exactly as it was.
func (t *Tournament) Apply(op model.Operation) (model.OpOutcome, error) {
	next := t.Clone()
	out, err := next.apply(op)
	if err != nil {
		return model.OpOutcome{}, err
	}
	*t = *next
	return out, nil
}

func (t *Tournament) apply(op model.Operation) (model.OpOutcome, error) {
	var out model.OpOutcome

	switch a := op.Action.(type) {
	// Lifecycle
	case model.StartTournament:
		return out, t.transition(model.StatusPlanned, model.StatusStarted)
	case model.FreezeTournament:
		// Thawing does not reopen registration; UpdateReg does
		err := t.transition(model.StatusStarted, model.StatusFrozen)
		t.RegOpen = false
		return out, err
	case model.ThawTournament:
		return out, t.transition(model.StatusFrozen, model.StatusStarted)
	case model.EndTournament:
		err := t.transition(model.StatusStarted, model.StatusEnded)
		t.RegOpen = false
		return out, err
	case model.CancelTournament:
		err := t.transition(model.StatusStarted, model.StatusCancelled)
		t.RegOpen = false
		return out, err
	case model.UpdateReg:
		if t.Status.IsTerminal() {
			return out, model.ErrIncorrectStatus
		}
		t.RegOpen = a.Open
		return out, nil
	case model.UpdateSetting:
		return out, t.updateSetting(a.Setting)

	// Registration
	case model.RegisterPlayer:
		return t.registerPlayer(op, a)
	case model.CheckIn:
		return out, t.checkIn(a)
	case model.DropPlayer:
		return out, t.dropPlayer(a.Player, model.StatusStarted)
	case model.AdminDropPlayer:
		return out, t.dropPlayer(a.Player, model.StatusStarted, model.StatusFrozen)
	case model.AddDeck:
		p, err := t.activePlayer(a.Player)
		if err != nil {
			return out, err
		}
		// Replacing a deck of the same name never counts against the limit
		if _, replaced := p.Decks[a.Name]; !replaced && len(p.Decks) >= int(t.MaxDeckCount) {
			return out, model.ErrDeckLimit
		}
		p.AddDeck(a.Name, a.Deck)
		return out, nil
	case model.RemoveDeck:
		p, err := t.activePlayer(a.Player)
		if err != nil {
			return out, err
		}
		return out, p.RemoveDeck(a.Name)
	case model.SetGamerTag:
		p, err := t.activePlayer(a.Player)
		if err != nil {
			return out, err
		}
		tag := a.Tag
		p.GameName = &tag
		return out, nil

	// Rounds
	case model.RecordResult:
		round, err := t.activeRound(a.Round)
		if err != nil {
			return out, err
		}
		return out, round.RecordResult(a.Result)
	case model.ConfirmResult:
		return t.confirmResult(a)
	case model.TimeExtension:
		round, err := t.activeRound(a.Round)
		if err != nil {
			return out, err
		}
		if a.Extension < 0 {
			return out, model.ErrInvalidSetting
		}
		round.Extend(a.Extension)
		return out, nil
	case model.KillRound:
		return out, t.killRound(a)

	// Pairing
	case model.ReadyPlayer:
		return t.readyPlayer(op, a)
	case model.UnreadyPlayer:
		p, err := t.startedPlayer(a.Player)
		if err != nil {
			return out, err
		}
		t.Pairing.UnreadyPlayer(p.ID)
		return out, nil
	case model.GiveBye:
		return t.giveBye(op, a)
	case model.CreateRound:
		return t.createRound(op, a)
	case model.PairRound:
		return t.pairRound(op)

	default:
		return out, fmt.Errorf("%w: %T", model.ErrUnknownOperation, op.Action)
	}
}

func (t *Tournament) transition(from, to model.TournamentStatus) error {
	if t.Status != from {
		return model.ErrIncorrectStatus
	}
	t.Status = to
	return nil
}

func (t *Tournament) requireStatus(allowed ...model.TournamentStatus) error {
	if !slices.Contains(allowed, t.Status) {
		return model.ErrIncorrectStatus
	}
	return nil
}

// startedPlayer resolves a player in a started tournament
func (t *Tournament) startedPlayer(ident model.PlayerIdentifier) (*model.Player, error) {
	if err := t.requireStatus(model.StatusStarted); err != nil {
		return nil, err
	}
	return t.Players.Get(ident)
}

// activePlayer resolves a player who has not dropped in a started tournament
func (t *Tournament) activePlayer(ident model.PlayerIdentifier) (*model.Player, error) {
	p, err := t.startedPlayer(ident)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, model.ErrPlayerLookup
	}
	return p, nil
}

func (t *Tournament) activeRound(ident model.RoundIdentifier) (*model.Round, error) {
	if err := t.requireStatus(model.StatusStarted); err != nil {
		return nil, err
	}
	return t.Rounds.Get(ident)
}

// roundID derives the ID of the n-th round created by an operation
func roundID(op model.Operation, n int) model.RoundID {
	return model.DeriveID[model.Round](op.ID.UUID(), fmt.Sprintf("round/%d", n))
}

func (t *Tournament) registerPlayer(op model.Operation, a model.RegisterPlayer) (model.OpOutcome, error) {
	if err := t.requireStatus(model.StatusStarted); err != nil {
		return model.OpOutcome{}, err
	}
	if !t.RegOpen {
		return model.OpOutcome{}, model.ErrRegClosed
	}
	id := model.DeriveID[model.Player](op.ID.UUID(), "player")
	if _, err := t.Players.Add(id, a.Name); err != nil {
		return model.OpOutcome{}, err
	}
	return model.OpOutcome{Player: &id}, nil
}

func (t *Tournament) checkIn(a model.CheckIn) error {
	p, err := t.activePlayer(a.Player)
	if err != nil {
		return err
	}
	p.Status = model.PlayerCheckedIn
	return nil
}

func (t *Tournament) dropPlayer(ident model.PlayerIdentifier, allowed ...model.TournamentStatus) error {
	if err := t.requireStatus(allowed...); err != nil {
		return err
	}
	p, err := t.Players.Get(ident)
	if err != nil {
		return err
	}
	p.Status = model.PlayerDropped
	t.Pairing.UnreadyPlayer(p.ID)
	return nil
}

func (t *Tournament) confirmResult(a model.ConfirmResult) (model.OpOutcome, error) {
	p, err := t.startedPlayer(a.Player)
	if err != nil {
		return model.OpOutcome{}, err
	}
	round, err := t.Rounds.ActiveRound(p.ID)
	if err != nil {
		return model.OpOutcome{}, err
	}
	status, err := round.Confirm(p.ID)
	if err != nil {
		return model.OpOutcome{}, err
	}
	return model.OpOutcome{Rounds: []model.RoundID{round.ID}, RoundStatus: status}, nil
}

func (t *Tournament) killRound(a model.KillRound) error {
	round, err := t.activeRound(a.Round)
	if err != nil {
		return err
	}
	if !round.IsActive() {
		return model.ErrIncorrectStatus
	}
	round.Kill()
	t.Pairing.RollbackPairings([][]model.PlayerID{round.Players})
	return nil
}

func (t *Tournament) readyPlayer(op model.Operation, a model.ReadyPlayer) (model.OpOutcome, error) {
	p, err := t.startedPlayer(a.Player)
	if err != nil {
		return model.OpOutcome{}, err
	}
	if !t.CanPlay(p.ID) {
		return model.OpOutcome{}, nil
	}
	t.Pairing.ReadyPlayer(p.ID)

	in := t.pairingInput()
	if !t.Pairing.ReadyToPair(in) {
		return model.OpOutcome{}, nil
	}
	pairings := t.Pairing.Pair(in)
	if pairings == nil {
		return model.OpOutcome{}, nil
	}
	ids, err := t.createRounds(op, pairings.Paired, nil)
	if err != nil {
		t.Pairing.RollbackPairings(pairings.Paired)
		return model.OpOutcome{}, err
	}
	return model.OpOutcome{Rounds: ids}, nil
}

func (t *Tournament) giveBye(op model.Operation, a model.GiveBye) (model.OpOutcome, error) {
	p, err := t.activePlayer(a.Player)
	if err != nil {
		return model.OpOutcome{}, err
	}
	ids, err := t.createRounds(op, nil, []model.PlayerID{p.ID})
	if err != nil {
		return model.OpOutcome{}, err
	}
	return model.OpOutcome{Rounds: ids}, nil
}

func (t *Tournament) createRound(op model.Operation, a model.CreateRound) (model.OpOutcome, error) {
	if err := t.requireStatus(model.StatusStarted); err != nil {
		return model.OpOutcome{}, err
	}
	var players []model.PlayerID
	for _, ident := range a.Players {
		p, err := t.Players.Get(ident)
		if err != nil {
			return model.OpOutcome{}, err
		}
		if !p.IsActive() {
			return model.OpOutcome{}, model.ErrPlayerLookup
		}
		if !slices.Contains(players, p.ID) {
			players = append(players, p.ID)
		}
	}
	if len(players) != len(a.Players) || len(players) != int(t.GameSize) {
		return model.OpOutcome{}, model.ErrInvalidGameSize
	}
	ids, err := t.createRounds(op, [][]model.PlayerID{players}, nil)
	if err != nil {
		return model.OpOutcome{}, err
	}
	return model.OpOutcome{Rounds: ids}, nil
}

func (t *Tournament) pairRound(op model.Operation) (model.OpOutcome, error) {
	if err := t.requireStatus(model.StatusStarted); err != nil {
		return model.OpOutcome{}, err
	}
	pairings := t.Pairing.Pair(t.pairingInput())
	if pairings == nil {
		return model.OpOutcome{}, nil
	}
	var byes []model.PlayerID
	if t.Pairing.Kind() == model.PairingSwiss {
		byes = pairings.Rejected
	}
	ids, err := t.createRounds(op, pairings.Paired, byes)
	if err != nil {
		t.Pairing.RollbackPairings(pairings.Paired)
		return model.OpOutcome{}, err
	}
	return model.OpOutcome{Rounds: ids}, nil
}

// createRounds opens one round per group and one certified bye per bye player
func (t *Tournament) createRounds(op model.Operation, groups [][]model.PlayerID, byes []model.PlayerID) ([]model.RoundID, error) {
	var ids []model.RoundID
	for _, group := range groups {
		round := t.Rounds.Create(roundID(op, len(ids)), group, op.Timestamp)
		ids = append(ids, round.ID)
	}
	for _, pid := range byes {
		round := t.Rounds.Create(roundID(op, len(ids)), []model.PlayerID{pid}, op.Timestamp)
		if err := round.RecordBye(); err != nil {
			return nil, err
		}
		ids = append(ids, round.ID)
	}
	return ids, nil
}

func (t *Tournament) updateSetting(setting model.Setting) error {
	if t.Status.IsTerminal() {
		return model.ErrIncorrectStatus
	}

	switch s := setting.(type) {
	case model.FormatSetting:
		t.Format = s.Format
	case model.StartingTableNumberSetting:
		t.Rounds.StartingTable = s.Table
	case model.UseTableNumbersSetting:
		t.UseTableNumbers = s.Use
	case model.MinDeckCountSetting:
		if s.Count > t.MaxDeckCount {
			return model.ErrInvalidSetting
		}
		t.MinDeckCount = s.Count
	case model.MaxDeckCountSetting:
		if s.Count < t.MinDeckCount {
			return model.ErrInvalidSetting
		}
		t.MaxDeckCount = s.Count
	case model.RequireCheckInSetting:
		t.RequireCheckIn = s.Required
	case model.RequireDeckRegSetting:
		t.RequireDeckReg = s.Required
	case model.RoundLengthSetting:
		if s.Length <= 0 {
			return model.ErrInvalidSetting
		}
		t.Rounds.RoundLength = s.Length
	case model.PairingSetting:
		if err := t.Pairing.UpdateSetting(s); err != nil {
			return err
		}
		if s.MatchSize != nil {
			t.GameSize = *s.MatchSize
		}
	case model.ScoringSetting:
		return t.Scoring.UpdateSetting(s)
	default:
		return fmt.Errorf("%w: %T", model.ErrInvalidSetting, setting)
	}
	return nil
}
