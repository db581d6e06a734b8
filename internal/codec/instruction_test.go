package codec

import (
	"bytes"
	"errors"
	"testing"

	"onchaincasino/internal/types"
)

func TestDecodeInstruction_Layout(t *testing.T) {
	// Initialize { house_edge_bps: 250, min_bet: 100_000, max_bet: 1_000_000_000 }
	data := []byte{0,
		0xfa, 0x00,
		0xa0, 0x86, 0x01, 0, 0, 0, 0, 0,
		0x00, 0xca, 0x9a, 0x3b, 0, 0, 0, 0,
	}
	ix, err := DecodeInstruction(data)
	if err != nil {
		t.Fatalf("DecodeInstruction: %v", err)
	}
	got, ok := ix.(Initialize)
	if !ok {
		t.Fatalf("decoded %T, want Initialize", ix)
	}
	if got.HouseEdgeBps != 250 || got.MinBet != 100_000 || got.MaxBet != 1_000_000_000 {
		t.Fatalf("unexpected fields: %+v", got)
	}
	if !bytes.Equal(EncodeInstruction(got), data) {
		t.Fatalf("re-encoding changed bytes")
	}
}

func TestDecodeInstruction_AllVariants(t *testing.T) {
	edge := uint16(300)
	maxBet := uint64(99)
	cases := []Instruction{
		Initialize{HouseEdgeBps: 1, MinBet: 2, MaxBet: 3},
		PlaceBet{GameID: types.Hash{7}, BetAmount: 500},
		SettleGame{IsWin: true, WinAmount: 12, ResultHash: types.Hash{9}},
		UpdateParams{},
		UpdateParams{HouseEdgeBps: &edge, MaxBet: &maxBet},
		AddOperator{},
		RemoveOperator{},
	}
	for _, want := range cases {
		got, err := DecodeInstruction(EncodeInstruction(want))
		if err != nil {
			t.Fatalf("%s: %v", want.Opcode(), err)
		}
		if got.Opcode() != want.Opcode() {
			t.Fatalf("opcode %s decoded as %s", want.Opcode(), got.Opcode())
		}
	}

	up, err := DecodeInstruction(EncodeInstruction(UpdateParams{HouseEdgeBps: &edge, MaxBet: &maxBet}))
	if err != nil {
		t.Fatalf("decode update params: %v", err)
	}
	p := up.(UpdateParams)
	if p.HouseEdgeBps == nil || *p.HouseEdgeBps != 300 || p.MinBet != nil || p.MaxBet == nil || *p.MaxBet != 99 {
		t.Fatalf("unexpected optional fields: %+v", p)
	}
}

func TestDecodeInstruction_Invalid(t *testing.T) {
	valid := EncodeInstruction(SettleGame{IsWin: false, ResultHash: types.Hash{1}})

	badBool := append([]byte(nil), valid...)
	badBool[1] = 2

	cases := map[string][]byte{
		"empty":          nil,
		"unknown opcode": {6},
		"short":          valid[:len(valid)-1],
		"trailing":       append(append([]byte(nil), valid...), 0),
		"bad bool":       badBool,
		"bad option tag": {byte(OpUpdateParams), 2, 0, 0},
		"missing option": {byte(OpUpdateParams), 1},
		"operator data":  {byte(OpAddOperator), 0},
	}
	for name, data := range cases {
		_, err := DecodeInstruction(data)
		if !errors.Is(err, types.ErrInvalidInstruction) {
			t.Fatalf("%s: expected invalid instruction, got %v", name, err)
		}
	}
}

type countingVisitor struct{ calls map[Opcode]int }

func (v *countingVisitor) VisitInitialize(Initialize) error         { v.calls[OpInitialize]++; return nil }
func (v *countingVisitor) VisitPlaceBet(PlaceBet) error             { v.calls[OpPlaceBet]++; return nil }
func (v *countingVisitor) VisitSettleGame(SettleGame) error         { v.calls[OpSettleGame]++; return nil }
func (v *countingVisitor) VisitUpdateParams(UpdateParams) error     { v.calls[OpUpdateParams]++; return nil }
func (v *countingVisitor) VisitAddOperator(AddOperator) error       { v.calls[OpAddOperator]++; return nil }
func (v *countingVisitor) VisitRemoveOperator(RemoveOperator) error { v.calls[OpRemoveOperator]++; return nil }

func TestAccept_RoutesToMatchingVisit(t *testing.T) {
	v := &countingVisitor{calls: map[Opcode]int{}}
	all := []Instruction{Initialize{}, PlaceBet{}, SettleGame{}, UpdateParams{}, AddOperator{}, RemoveOperator{}}
	for _, ix := range all {
		if err := ix.Accept(v); err != nil {
			t.Fatalf("Accept: %v", err)
		}
	}
	for _, ix := range all {
		if v.calls[ix.Opcode()] != 1 {
			t.Fatalf("%s visited %d times", ix.Opcode(), v.calls[ix.Opcode()])
		}
	}
}
