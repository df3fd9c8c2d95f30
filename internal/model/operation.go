package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrUnknownOperation is returned when decoding an operation of unknown kind
var ErrUnknownOperation = errors.New("unknown operation kind")

// OpKind names an operation variant
type OpKind string

const (
	KindStart           OpKind = "start"
	KindFreeze          OpKind = "freeze"
	KindThaw            OpKind = "thaw"
	KindEnd             OpKind = "end"
	KindCancel          OpKind = "cancel"
	KindUpdateReg       OpKind = "update_reg"
	KindRegisterPlayer  OpKind = "register_player"
	KindCheckIn         OpKind = "check_in"
	KindDropPlayer      OpKind = "drop_player"
	KindAdminDropPlayer OpKind = "admin_drop_player"
	KindAddDeck         OpKind = "add_deck"
	KindRemoveDeck      OpKind = "remove_deck"
	KindSetGamerTag     OpKind = "set_gamer_tag"
	KindRecordResult    OpKind = "record_result"
	KindConfirmResult   OpKind = "confirm_result"
	KindReadyPlayer     OpKind = "ready_player"
	KindUnreadyPlayer   OpKind = "unready_player"
	KindGiveBye         OpKind = "give_bye"
	KindCreateRound     OpKind = "create_round"
	KindPairRound       OpKind = "pair_round"
	KindTimeExtension   OpKind = "time_extension"
	KindKillRound       OpKind = "kill_round"
	KindUpdateSetting   OpKind = "update_setting"
)

// Action is the payload of an operation. The set of actions is closed.
type Action interface {
	Kind() OpKind
	action()
}

type (
	StartTournament  struct{}
	FreezeTournament struct{}
	ThawTournament   struct{}
	EndTournament    struct{}
	CancelTournament struct{}
	PairRound        struct{}

	UpdateReg struct {
		Open bool `json:"open"`
	}
	RegisterPlayer struct {
		Name string `json:"name"`
	}
	CheckIn struct {
		Player PlayerIdentifier `json:"player"`
	}
	DropPlayer struct {
		Player PlayerIdentifier `json:"player"`
	}
	AdminDropPlayer struct {
		Player PlayerIdentifier `json:"player"`
	}
	AddDeck struct {
		Player PlayerIdentifier `json:"player"`
		Name   string           `json:"name"`
		Deck   Deck             `json:"deck"`
	}
	RemoveDeck struct {
		Player PlayerIdentifier `json:"player"`
		Name   string           `json:"name"`
	}
	SetGamerTag struct {
		Player PlayerIdentifier `json:"player"`
		Tag    string           `json:"tag"`
	}
	RecordResult struct {
		Round  RoundIdentifier `json:"round"`
		Result RoundResult     `json:"result"`
	}
	ConfirmResult struct {
		Player PlayerIdentifier `json:"player"`
	}
	ReadyPlayer struct {
		Player PlayerIdentifier `json:"player"`
	}
	UnreadyPlayer struct {
		Player PlayerIdentifier `json:"player"`
	}
	GiveBye struct {
		Player PlayerIdentifier `json:"player"`
	}
	CreateRound struct {
		Players []PlayerIdentifier `json:"players"`
	}
	TimeExtension struct {
		Round     RoundIdentifier `json:"round"`
		Extension time.Duration   `json:"extension"`
	}
	KillRound struct {
		Round RoundIdentifier `json:"round"`
	}
	UpdateSetting struct {
		Setting Setting `json:"-"`
	}
)

func (StartTournament) Kind() OpKind  { return KindStart }
func (FreezeTournament) Kind() OpKind { return KindFreeze }
func (ThawTournament) Kind() OpKind   { return KindThaw }
func (EndTournament) Kind() OpKind    { return KindEnd }
func (CancelTournament) Kind() OpKind { return KindCancel }
func (PairRound) Kind() OpKind        { return KindPairRound }
func (UpdateReg) Kind() OpKind        { return KindUpdateReg }
func (RegisterPlayer) Kind() OpKind   { return KindRegisterPlayer }
func (CheckIn) Kind() OpKind          { return KindCheckIn }
func (DropPlayer) Kind() OpKind       { return KindDropPlayer }
func (AdminDropPlayer) Kind() OpKind  { return KindAdminDropPlayer }
func (AddDeck) Kind() OpKind          { return KindAddDeck }
func (RemoveDeck) Kind() OpKind       { return KindRemoveDeck }
func (SetGamerTag) Kind() OpKind      { return KindSetGamerTag }
func (RecordResult) Kind() OpKind     { return KindRecordResult }
func (ConfirmResult) Kind() OpKind    { return KindConfirmResult }
func (ReadyPlayer) Kind() OpKind      { return KindReadyPlayer }
func (UnreadyPlayer) Kind() OpKind    { return KindUnreadyPlayer }
func (GiveBye) Kind() OpKind          { return KindGiveBye }
func (CreateRound) Kind() OpKind      { return KindCreateRound }
func (TimeExtension) Kind() OpKind    { return KindTimeExtension }
func (KillRound) Kind() OpKind        { return KindKillRound }
func (UpdateSetting) Kind() OpKind    { return KindUpdateSetting }

func (StartTournament) action()  {}
func (FreezeTournament) action() {}
func (ThawTournament) action()   {}
func (EndTournament) action()    {}
func (CancelTournament) action() {}
func (PairRound) action()        {}
func (UpdateReg) action()        {}
func (RegisterPlayer) action()   {}
func (CheckIn) action()          {}
func (DropPlayer) action()       {}
func (AdminDropPlayer) action()  {}
func (AddDeck) action()          {}
func (RemoveDeck) action()       {}
func (SetGamerTag) action()      {}
func (RecordResult) action()     {}
func (ConfirmResult) action()    {}
func (ReadyPlayer) action()      {}
func (UnreadyPlayer) action()    {}
func (GiveBye) action()          {}
func (CreateRound) action()      {}
func (TimeExtension) action()    {}
func (KillRound) action()        {}
func (UpdateSetting) action()    {}

func (u UpdateSetting) MarshalJSON() ([]byte, error) {
	return MarshalSetting(u.Setting)
}

func (u *UpdateSetting) UnmarshalJSON(data []byte) error {
	s, err := UnmarshalSetting(data)
	if err != nil {
		return err
	}
	u.Setting = s
	return nil
}

var actionDecoders = map[OpKind]func(json.RawMessage) (Action, error){
	KindStart:           decodeAction[StartTournament],
	KindFreeze:          decodeAction[FreezeTournament],
	KindThaw:            decodeAction[ThawTournament],
	KindEnd:             decodeAction[EndTournament],
	KindCancel:          decodeAction[CancelTournament],
	KindPairRound:       decodeAction[PairRound],
	KindUpdateReg:       decodeAction[UpdateReg],
	KindRegisterPlayer:  decodeAction[RegisterPlayer],
	KindCheckIn:         decodeAction[CheckIn],
	KindDropPlayer:      decodeAction[DropPlayer],
	KindAdminDropPlayer: decodeAction[AdminDropPlayer],
	KindAddDeck:         decodeAction[AddDeck],
	KindRemoveDeck:      decodeAction[RemoveDeck],
	KindSetGamerTag:     decodeAction[SetGamerTag],
	KindRecordResult:    decodeAction[RecordResult],
	KindConfirmResult:   decodeAction[ConfirmResult],
	KindReadyPlayer:     decodeAction[ReadyPlayer],
	KindUnreadyPlayer:   decodeAction[UnreadyPlayer],
	KindGiveBye:         decodeAction[GiveBye],
	KindCreateRound:     decodeAction[CreateRound],
	KindTimeExtension:   decodeAction[TimeExtension],
	KindKillRound:       decodeAction[KillRound],
	KindUpdateSetting:   decodeAction[UpdateSetting],
}

func decodeAction[T Action](data json.RawMessage) (Action, error) {
	var v T
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// DecodeAction decodes the payload of the given kind
func DecodeAction(kind OpKind, data json.RawMessage) (Action, error) {
	decode, ok := actionDecoders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, kind)
	}
	return decode(data)
}

// Operation is one entry of a tournament's log
type Operation struct {
	ID        OpID
	Seq       uint64
	Timestamp time.Time
	Action    Action
}

// NewOperation creates an unsequenced operation. The log assigns Seq on append.
func NewOperation(id OpID, ts time.Time, action Action) Operation {
	return Operation{ID: id, Timestamp: ts.UTC().Round(0), Action: action}
}

type operationJSON struct {
	ID        OpID            `json:"id"`
	Seq       uint64          `json:"seq"`
	Timestamp time.Time       `json:"timestamp"`
	Kind      OpKind          `json:"kind"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func (o Operation) MarshalJSON() ([]byte, error) {
	if o.Action == nil {
		return nil, fmt.Errorf("%w: operation %s has no action", ErrUnknownOperation, o.ID)
	}
	data, err := json.Marshal(o.Action)
	if err != nil {
		return nil, err
	}
	return json.Marshal(operationJSON{
		ID:        o.ID,
		Seq:       o.Seq,
		Timestamp: o.Timestamp,
		Kind:      o.Action.Kind(),
		Data:      data,
	})
}

func (o *Operation) UnmarshalJSON(data []byte) error {
	var raw operationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	action, err := DecodeAction(raw.Kind, raw.Data)
	if err != nil {
		return err
	}
	*o = Operation{
		ID:        raw.ID,
		Seq:       raw.Seq,
		Timestamp: raw.Timestamp,
		Action:    action,
	}
	return nil
}
