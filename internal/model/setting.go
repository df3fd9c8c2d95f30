package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// PairingKind names a pairing strategy
type PairingKind string

const (
	PairingSwiss PairingKind = "swiss"
	PairingFluid PairingKind = "fluid"
)

// ScoringKind names a scoring strategy
type ScoringKind string

const (
	ScoringStandard ScoringKind = "standard"
)

// SwissSettings configures batch pairing
type SwissSettings struct {
	MatchSize  uint8 `json:"match_size"`
	DoCheckIns bool  `json:"do_check_ins"`
}

// FluidSettings configures queue pairing
type FluidSettings struct {
	MatchSize uint8 `json:"match_size"`
}

// StandardScoringSettings holds the point values used by standard scoring
type StandardScoringSettings struct {
	MatchWinPoints  float64 `json:"match_win_points"`
	MatchDrawPoints float64 `json:"match_draw_points"`
	MatchLossPoints float64 `json:"match_loss_points"`
	GameWinPoints   float64 `json:"game_win_points"`
	GameDrawPoints  float64 `json:"game_draw_points"`
	GameLossPoints  float64 `json:"game_loss_points"`
	ByePoints       float64 `json:"bye_points"`
	IncludeByes     bool    `json:"include_byes"`
}

// DefaultStandardScoringSettings returns the usual 3/1/0 scoring
func DefaultStandardScoringSettings() StandardScoringSettings {
	return StandardScoringSettings{
		MatchWinPoints:  3,
		MatchDrawPoints: 1,
		MatchLossPoints: 0,
		GameWinPoints:   3,
		GameDrawPoints:  1,
		GameLossPoints:  0,
		ByePoints:       3,
		IncludeByes:     true,
	}
}

// SettingKind names a tournament setting
type SettingKind string

const (
	SettingFormat              SettingKind = "format"
	SettingStartingTableNumber SettingKind = "starting_table_number"
	SettingUseTableNumbers     SettingKind = "use_table_numbers"
	SettingMinDeckCount        SettingKind = "min_deck_count"
	SettingMaxDeckCount        SettingKind = "max_deck_count"
	SettingRequireCheckIn      SettingKind = "require_check_in"
	SettingRequireDeckReg      SettingKind = "require_deck_reg"
	SettingRoundLength         SettingKind = "round_length"
	SettingPairing             SettingKind = "pairing"
	SettingScoring             SettingKind = "scoring"
)

// Setting is one adjustable tournament setting
type Setting interface {
	SettingKind() SettingKind
	setting()
}

type FormatSetting struct {
	Format string `json:"format"`
}

type StartingTableNumberSetting struct {
	Table uint64 `json:"table"`
}

type UseTableNumbersSetting struct {
	Use bool `json:"use"`
}

type MinDeckCountSetting struct {
	Count uint8 `json:"count"`
}

type MaxDeckCountSetting struct {
	Count uint8 `json:"count"`
}

type RequireCheckInSetting struct {
	Required bool `json:"required"`
}

type RequireDeckRegSetting struct {
	Required bool `json:"required"`
}

type RoundLengthSetting struct {
	Length time.Duration `json:"length"`
}

// PairingSetting adjusts the pairing system. Kind must match the
// tournament's pairing system; nil fields are left unchanged.
type PairingSetting struct {
	Kind       PairingKind `json:"kind"`
	MatchSize  *uint8      `json:"match_size,omitempty"`
	DoCheckIns *bool       `json:"do_check_ins,omitempty"`
}

// ScoringSetting replaces the scoring system's settings. Kind must match
// the tournament's scoring system.
type ScoringSetting struct {
	Kind     ScoringKind              `json:"kind"`
	Standard *StandardScoringSettings `json:"standard,omitempty"`
}

func (FormatSetting) SettingKind() SettingKind              { return SettingFormat }
func (StartingTableNumberSetting) SettingKind() SettingKind { return SettingStartingTableNumber }
func (UseTableNumbersSetting) SettingKind() SettingKind     { return SettingUseTableNumbers }
func (MinDeckCountSetting) SettingKind() SettingKind        { return SettingMinDeckCount }
func (MaxDeckCountSetting) SettingKind() SettingKind        { return SettingMaxDeckCount }
func (RequireCheckInSetting) SettingKind() SettingKind      { return SettingRequireCheckIn }
func (RequireDeckRegSetting) SettingKind() SettingKind      { return SettingRequireDeckReg }
func (RoundLengthSetting) SettingKind() SettingKind         { return SettingRoundLength }
func (PairingSetting) SettingKind() SettingKind             { return SettingPairing }
func (ScoringSetting) SettingKind() SettingKind             { return SettingScoring }

func (FormatSetting) setting()              {}
func (StartingTableNumberSetting) setting() {}
func (UseTableNumbersSetting) setting()     {}
func (MinDeckCountSetting) setting()        {}
func (MaxDeckCountSetting) setting()        {}
func (RequireCheckInSetting) setting()      {}
func (RequireDeckRegSetting) setting()      {}
func (RoundLengthSetting) setting()         {}
func (PairingSetting) setting()             {}
func (ScoringSetting) setting()             {}

var settingDecoders = map[SettingKind]func(json.RawMessage) (Setting, error){
	SettingFormat:              decodeSetting[FormatSetting],
	SettingStartingTableNumber: decodeSetting[StartingTableNumberSetting],
	SettingUseTableNumbers:     decodeSetting[UseTableNumbersSetting],
	SettingMinDeckCount:        decodeSetting[MinDeckCountSetting],
	SettingMaxDeckCount:        decodeSetting[MaxDeckCountSetting],
	SettingRequireCheckIn:      decodeSetting[RequireCheckInSetting],
	SettingRequireDeckReg:      decodeSetting[RequireDeckRegSetting],
	SettingRoundLength:         decodeSetting[RoundLengthSetting],
	SettingPairing:             decodeSetting[PairingSetting],
	SettingScoring:             decodeSetting[ScoringSetting],
}

func decodeSetting[T Setting](data json.RawMessage) (Setting, error) {
	var v T
	if len(data) > 0 {
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

type variantJSON struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MarshalSetting encodes a setting as {"kind": ..., "data": ...}
func MarshalSetting(s Setting) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: missing setting", ErrInvalidSetting)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(variantJSON{Kind: string(s.SettingKind()), Data: data})
}

// UnmarshalSetting decodes a setting written by MarshalSetting
func UnmarshalSetting(data []byte) (Setting, error) {
	var raw variantJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	decode, ok := settingDecoders[SettingKind(raw.Kind)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown setting %q", ErrInvalidSetting, raw.Kind)
	}
	return decode(raw.Data)
}
