package codec

import (
	"fmt"

	"onchaincasino/internal/types"
)

// Record kinds prefix every stored record so one kind cannot be read as the
// other.
const (
	RecordKindCasino byte = 1
	RecordKindGame   byte = 2
)

// GameRecordSize is fixed: kind | game_id | player | bet | settled | win | win_amount | result_hash.
const GameRecordSize = 1 + 32 + 32 + 8 + 1 + 1 + 8 + 32

// CasinoRecordSize is the encoded size of a configuration record with n operators.
func CasinoRecordSize(n int) int {
	// kind | authority | house_edge | min_bet | max_bet | u32 count | n*address
	return 1 + 32 + 2 + 8 + 8 + 4 + n*types.AddressLen
}

func EncodeCasinoConfig(cfg types.CasinoConfig) []byte {
	ops := cfg.Operators.Members()
	b := make([]byte, 0, CasinoRecordSize(len(ops)))
	b = append(b, RecordKindCasino)
	b = append(b, cfg.Authority[:]...)
	b = appendU16(b, cfg.HouseEdgeBps)
	b = appendU64(b, cfg.MinBet)
	b = appendU64(b, cfg.MaxBet)
	b = appendU32(b, uint32(len(ops)))
	for _, op := range ops {
		b = append(b, op[:]...)
	}
	return b
}

func DecodeCasinoConfig(data []byte) (types.CasinoConfig, error) {
	r := newReader(data)
	if kind := r.u8("kind"); r.err == nil && kind != RecordKindCasino {
		return types.CasinoConfig{}, types.ErrInvalidInstruction.Wrapf("record kind %d is not a casino config", kind)
	}
	cfg := types.CasinoConfig{
		Authority:    types.Address(r.bytes32("authority")),
		HouseEdgeBps: r.u16("house_edge_bps"),
		MinBet:       r.u64("min_bet"),
		MaxBet:       r.u64("max_bet"),
	}
	n := r.u32("operators.len")
	if r.err == nil && uint64(n)*types.AddressLen > uint64(len(data)) {
		return types.CasinoConfig{}, types.ErrInvalidInstruction.Wrapf("operators.len %d exceeds record size", n)
	}
	members := make([]types.Address, 0, n)
	for i := uint32(0); i < n && r.err == nil; i++ {
		members = append(members, types.Address(r.bytes32(fmt.Sprintf("operators[%d]", i))))
	}
	if err := r.finish(); err != nil {
		return types.CasinoConfig{}, types.ErrInvalidInstruction.Wrapf("decode casino config: %v", err)
	}
	cfg.Operators = types.NewOperatorSet(members...)
	return cfg, nil
}

func EncodeGameRecord(g types.GameRecord) []byte {
	b := make([]byte, 0, GameRecordSize)
	b = append(b, RecordKindGame)
	b = append(b, g.GameID[:]...)
	b = append(b, g.Player[:]...)
	b = appendU64(b, g.BetAmount)
	b = appendBool(b, g.IsSettled)
	b = appendBool(b, g.IsWin)
	b = appendU64(b, g.WinAmount)
	b = append(b, g.ResultHash[:]...)
	return b
}

func DecodeGameRecord(data []byte) (types.GameRecord, error) {
	r := newReader(data)
	if kind := r.u8("kind"); r.err == nil && kind != RecordKindGame {
		return types.GameRecord{}, types.ErrInvalidInstruction.Wrapf("record kind %d is not a game", kind)
	}
	g := types.GameRecord{
		GameID:     r.bytes32("game_id"),
		Player:     types.Address(r.bytes32("player")),
		BetAmount:  r.u64("bet_amount"),
		IsSettled:  r.bool("is_settled"),
		IsWin:      r.bool("is_win"),
		WinAmount:  r.u64("win_amount"),
		ResultHash: r.bytes32("result_hash"),
	}
	if err := r.finish(); err != nil {
		return types.GameRecord{}, types.ErrInvalidInstruction.Wrapf("decode game record: %v", err)
	}
	return g, nil
}
