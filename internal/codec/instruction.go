package codec

import (
	"fmt"

	"onchaincasino/internal/types"
)

// Opcode tags the instruction variant on the wire.
type Opcode uint8

const (
	OpInitialize Opcode = iota
	OpPlaceBet
	OpSettleGame
	OpUpdateParams
	OpAddOperator
	OpRemoveOperator
)

func (o Opcode) String() string {
	switch o {
	case OpInitialize:
		return "initialize"
	case OpPlaceBet:
		return "place_bet"
	case OpSettleGame:
		return "settle_game"
	case OpUpdateParams:
		return "update_params"
	case OpAddOperator:
		return "add_operator"
	case OpRemoveOperator:
		return "remove_operator"
	default:
		return fmt.Sprintf("opcode(%d)", uint8(o))
	}
}

// Instruction is the closed set of decoded casino instructions. The unexported
// method keeps the set closed to this package.
type Instruction interface {
	Opcode() Opcode
	// Accept dispatches to the matching Visitor method.
	Accept(v Visitor) error

	appendFields(b []byte) []byte
}

// Visitor has one method per instruction variant. A new variant must add a
// method here, so every Visitor implementation stops compiling until it
// handles it.
type Visitor interface {
	VisitInitialize(Initialize) error
	VisitPlaceBet(PlaceBet) error
	VisitSettleGame(SettleGame) error
	VisitUpdateParams(UpdateParams) error
	VisitAddOperator(AddOperator) error
	VisitRemoveOperator(RemoveOperator) error
}

type Initialize struct {
	HouseEdgeBps uint16
	MinBet       uint64
	MaxBet       uint64
}

type PlaceBet struct {
	GameID    types.Hash
	BetAmount uint64
}

type SettleGame struct {
	IsWin      bool
	WinAmount  uint64
	ResultHash types.Hash
}

// UpdateParams fields are optional; nil leaves the stored value untouched.
type UpdateParams struct {
	HouseEdgeBps *uint16
	MinBet       *uint64
	MaxBet       *uint64
}

// AddOperator carries no fields; the operator comes from the account list.
type AddOperator struct{}

// RemoveOperator carries no fields; the operator comes from the account list.
type RemoveOperator struct{}

var (
	_ Instruction = Initialize{}
	_ Instruction = PlaceBet{}
	_ Instruction = SettleGame{}
	_ Instruction = UpdateParams{}
	_ Instruction = AddOperator{}
	_ Instruction = RemoveOperator{}
)

func (Initialize) Opcode() Opcode     { return OpInitialize }
func (PlaceBet) Opcode() Opcode       { return OpPlaceBet }
func (SettleGame) Opcode() Opcode     { return OpSettleGame }
func (UpdateParams) Opcode() Opcode   { return OpUpdateParams }
func (AddOperator) Opcode() Opcode    { return OpAddOperator }
func (RemoveOperator) Opcode() Opcode { return OpRemoveOperator }

func (ix Initialize) Accept(v Visitor) error     { return v.VisitInitialize(ix) }
func (ix PlaceBet) Accept(v Visitor) error       { return v.VisitPlaceBet(ix) }
func (ix SettleGame) Accept(v Visitor) error     { return v.VisitSettleGame(ix) }
func (ix UpdateParams) Accept(v Visitor) error   { return v.VisitUpdateParams(ix) }
func (ix AddOperator) Accept(v Visitor) error    { return v.VisitAddOperator(ix) }
func (ix RemoveOperator) Accept(v Visitor) error { return v.VisitRemoveOperator(ix) }

func (ix Initialize) appendFields(b []byte) []byte {
	b = appendU16(b, ix.HouseEdgeBps)
	b = appendU64(b, ix.MinBet)
	return appendU64(b, ix.MaxBet)
}

func (ix PlaceBet) appendFields(b []byte) []byte {
	b = append(b, ix.GameID[:]...)
	return appendU64(b, ix.BetAmount)
}

func (ix SettleGame) appendFields(b []byte) []byte {
	b = appendBool(b, ix.IsWin)
	b = appendU64(b, ix.WinAmount)
	return append(b, ix.ResultHash[:]...)
}

func (ix UpdateParams) appendFields(b []byte) []byte {
	if ix.HouseEdgeBps == nil {
		b = append(b, 0)
	} else {
		b = appendU16(append(b, 1), *ix.HouseEdgeBps)
	}
	if ix.MinBet == nil {
		b = append(b, 0)
	} else {
		b = appendU64(append(b, 1), *ix.MinBet)
	}
	if ix.MaxBet == nil {
		b = append(b, 0)
	} else {
		b = appendU64(append(b, 1), *ix.MaxBet)
	}
	return b
}

func (AddOperator) appendFields(b []byte) []byte    { return b }
func (RemoveOperator) appendFields(b []byte) []byte { return b }

// EncodeInstruction renders ix in the wire format: opcode byte followed by the
// variant's fields.
func EncodeInstruction(ix Instruction) []byte {
	return ix.appendFields([]byte{byte(ix.Opcode())})
}

// DecodeInstruction parses wire bytes. Every failure is ErrInvalidInstruction.
func DecodeInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, types.ErrInvalidInstruction.Wrap("empty instruction data")
	}
	op := Opcode(data[0])
	r := newReader(data[1:])

	var ix Instruction
	switch op {
	case OpInitialize:
		ix = Initialize{
			HouseEdgeBps: r.u16("house_edge_bps"),
			MinBet:       r.u64("min_bet"),
			MaxBet:       r.u64("max_bet"),
		}
	case OpPlaceBet:
		ix = PlaceBet{
			GameID:    r.bytes32("game_id"),
			BetAmount: r.u64("bet_amount"),
		}
	case OpSettleGame:
		ix = SettleGame{
			IsWin:      r.bool("is_win"),
			WinAmount:  r.u64("win_amount"),
			ResultHash: r.bytes32("result_hash"),
		}
	case OpUpdateParams:
		var up UpdateParams
		if r.option("house_edge_bps") {
			v := r.u16("house_edge_bps")
			up.HouseEdgeBps = &v
		}
		if r.option("min_bet") {
			v := r.u64("min_bet")
			up.MinBet = &v
		}
		if r.option("max_bet") {
			v := r.u64("max_bet")
			up.MaxBet = &v
		}
		ix = up
	case OpAddOperator:
		ix = AddOperator{}
	case OpRemoveOperator:
		ix = RemoveOperator{}
	default:
		return nil, types.ErrInvalidInstruction.Wrapf("unknown opcode %d", uint8(op))
	}

	if err := r.finish(); err != nil {
		return nil, types.ErrInvalidInstruction.Wrapf("%s: %v", op, err)
	}
	return ix, nil
}
