package scoring

import (
	"cmp"
	"slices"

	"github.com/mcoot/tourney/internal/model"
)

// minPercentage is the floor applied to win percentages
const minPercentage = 1.0 / 3.0

// byeGameWins is the number of game wins a bye is worth
const byeGameWins = 2

// Standard scores match points first, then opponents' match win percentage,
// game win percentage and opponents' game win percentage.
type Standard struct {
	settings model.StandardScoringSettings
}

var _ System = (*Standard)(nil)

// NewStandard creates a Standard scoring system
func NewStandard(settings model.StandardScoringSettings) *Standard {
	return &Standard{settings: settings}
}

func (s *Standard) Kind() model.ScoringKind { return model.ScoringStandard }

// Settings returns the current settings
func (s *Standard) Settings() model.StandardScoringSettings { return s.settings }

// record accumulates one player's results
type record struct {
	matchPoints float64
	gamePoints  float64

	// Points and counts that feed the percentages
	pctMatchPoints float64
	pctMatches     int
	pctGamePoints  float64
	pctGames       int

	opponents []model.PlayerID
}

func (s *Standard) Standings(players *model.PlayerRegistry, rounds *model.RoundRegistry) model.Standings {
	records := make(map[model.PlayerID]*record, players.Len())
	for _, p := range players.All() {
		records[p.ID] = &record{}
	}

	for _, r := range rounds.All() {
		if !r.IsCertified() {
			continue
		}
		if r.IsBye {
			s.scoreBye(records, r)
			continue
		}
		s.scoreRound(records, r)
	}

	mwp := make(map[model.PlayerID]float64, len(records))
	gwp := make(map[model.PlayerID]float64, len(records))
	for id, rec := range records {
		mwp[id] = percentage(rec.pctMatchPoints, s.settings.MatchWinPoints*float64(rec.pctMatches), rec.pctMatches)
		gwp[id] = percentage(rec.pctGamePoints, s.settings.GameWinPoints*float64(rec.pctGames), rec.pctGames)
	}

	var entries []model.Standing
	for _, p := range players.Active() {
		rec := records[p.ID]
		entries = append(entries, model.Standing{
			PlayerID: p.ID,
			Name:     p.Name,
			Score: model.Score{
				MatchPoints: rec.matchPoints,
				GamePoints:  rec.gamePoints,
				MWP:         mwp[p.ID],
				GWP:         gwp[p.ID],
				OppMWP:      average(rec.opponents, mwp),
				OppGWP:      average(rec.opponents, gwp),
			},
		})
	}

	slices.SortFunc(entries, func(a, b model.Standing) int {
		return cmp.Or(
			cmp.Compare(b.Score.MatchPoints, a.Score.MatchPoints),
			cmp.Compare(b.Score.OppMWP, a.Score.OppMWP),
			cmp.Compare(b.Score.GWP, a.Score.GWP),
			cmp.Compare(b.Score.OppGWP, a.Score.OppGWP),
			a.PlayerID.Compare(b.PlayerID),
		)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return model.Standings{Entries: entries}
}

func (s *Standard) scoreBye(records map[model.PlayerID]*record, r *model.Round) {
	rec, ok := records[r.Players[0]]
	if !ok {
		return
	}
	rec.matchPoints += s.settings.ByePoints
	rec.gamePoints += byeGameWins * s.settings.GameWinPoints
	if s.settings.IncludeByes {
		rec.pctMatchPoints += s.settings.MatchWinPoints
		rec.pctMatches++
		rec.pctGamePoints += byeGameWins * s.settings.GameWinPoints
		rec.pctGames += byeGameWins
	}
}

func (s *Standard) scoreRound(records map[model.PlayerID]*record, r *model.Round) {
	wins := r.GameWins()
	draws := r.GameDraws()
	games := draws
	for _, n := range wins {
		games += int(n)
	}

	for _, pid := range r.Players {
		rec, ok := records[pid]
		if !ok {
			continue
		}

		var mp float64
		switch {
		case r.Winner == nil:
			mp = s.settings.MatchDrawPoints
		case *r.Winner == pid:
			mp = s.settings.MatchWinPoints
		default:
			mp = s.settings.MatchLossPoints
		}
		rec.matchPoints += mp
		rec.pctMatchPoints += mp
		rec.pctMatches++

		won := int(wins[pid])
		lost := games - won - draws
		gp := float64(won)*s.settings.GameWinPoints +
			float64(draws)*s.settings.GameDrawPoints +
			float64(lost)*s.settings.GameLossPoints
		rec.gamePoints += gp
		rec.pctGamePoints += gp
		rec.pctGames += games

		rec.opponents = append(rec.opponents, r.Opponents(pid)...)
	}
}

func percentage(points, possible float64, played int) float64 {
	if played == 0 || possible <= 0 {
		return 0
	}
	return max(points/possible, minPercentage)
}

func average(ids []model.PlayerID, values map[model.PlayerID]float64) float64 {
	if len(ids) == 0 {
		return 0
	}
	var sum float64
	for _, id := range ids {
		sum += values[id]
	}
	return sum / float64(len(ids))
}

func (s *Standard) UpdateSetting(setting model.ScoringSetting) error {
	if setting.Kind != model.ScoringStandard {
		return model.ErrIncompatibleScoringSystem
	}
	if setting.Standard == nil {
		return model.ErrInvalidSetting
	}
	s.settings = *setting.Standard
	return nil
}

func (s *Standard) State() State {
	settings := s.settings
	return State{Kind: model.ScoringStandard, Standard: &settings}
}

func (s *Standard) Clone() System {
	return &Standard{settings: s.settings}
}
