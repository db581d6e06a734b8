// Package client builds casino instructions: wire data plus the ordered
// record list each handler expects.
package client

import (
	"onchaincasino/internal/codec"
	"onchaincasino/internal/types"
)

// Instruction is a ready-to-wrap casino/exec payload.
type Instruction struct {
	Data     []byte
	Accounts []codec.AccountMeta
}

// Tx returns the casino/exec transaction value.
func (ix Instruction) Tx() codec.CasinoExecTx {
	return codec.CasinoExecTx{
		Data:     append([]byte(nil), ix.Data...),
		Accounts: append([]codec.AccountMeta(nil), ix.Accounts...),
	}
}

func signerWritable(a types.Address) codec.AccountMeta {
	return codec.AccountMeta{Address: a, Signer: true, Writable: true}
}

func writable(a types.Address) codec.AccountMeta {
	return codec.AccountMeta{Address: a, Writable: true}
}

func readonly(a types.Address) codec.AccountMeta {
	return codec.AccountMeta{Address: a}
}

func allocator() codec.AccountMeta { return readonly(types.AllocatorID) }

// Initialize creates the configuration record owned by authority.
func Initialize(program, authority types.Address, houseEdgeBps uint16, minBet, maxBet uint64) Instruction {
	return Instruction{
		Data: codec.EncodeInstruction(codec.Initialize{
			HouseEdgeBps: houseEdgeBps,
			MinBet:       minBet,
			MaxBet:       maxBet,
		}),
		Accounts: []codec.AccountMeta{
			signerWritable(authority),
			writable(types.CasinoAddress(program, authority)),
			allocator(),
		},
	}
}

// PlaceBet escrows betAmount from player into the game record for gameID
// under the casino owned by authority.
func PlaceBet(program, player, authority types.Address, gameID types.Hash, betAmount uint64) Instruction {
	return Instruction{
		Data: codec.EncodeInstruction(codec.PlaceBet{
			GameID:    gameID,
			BetAmount: betAmount,
		}),
		Accounts: []codec.AccountMeta{
			signerWritable(player),
			readonly(types.CasinoAddress(program, authority)),
			writable(types.GameAddress(program, gameID)),
			allocator(),
		},
	}
}

// SettleGame records the outcome of gameID, signed by operator.
func SettleGame(program, operator, authority types.Address, gameID types.Hash, player types.Address, isWin bool, winAmount uint64, resultHash types.Hash) Instruction {
	return Instruction{
		Data: codec.EncodeInstruction(codec.SettleGame{
			IsWin:      isWin,
			WinAmount:  winAmount,
			ResultHash: resultHash,
		}),
		Accounts: []codec.AccountMeta{
			{Address: operator, Signer: true},
			readonly(types.CasinoAddress(program, authority)),
			writable(types.GameAddress(program, gameID)),
			writable(player),
			allocator(),
		},
	}
}

// UpdateParams changes the supplied parameters; nil fields are left as is.
func UpdateParams(program, authority types.Address, houseEdgeBps *uint16, minBet, maxBet *uint64) Instruction {
	return Instruction{
		Data: codec.EncodeInstruction(codec.UpdateParams{
			HouseEdgeBps: houseEdgeBps,
			MinBet:       minBet,
			MaxBet:       maxBet,
		}),
		Accounts: []codec.AccountMeta{
			signerWritable(authority),
			writable(types.CasinoAddress(program, authority)),
		},
	}
}

func AddOperator(program, authority, operator types.Address) Instruction {
	return Instruction{
		Data:     codec.EncodeInstruction(codec.AddOperator{}),
		Accounts: operatorAccounts(program, authority, operator),
	}
}

func RemoveOperator(program, authority, operator types.Address) Instruction {
	return Instruction{
		Data:     codec.EncodeInstruction(codec.RemoveOperator{}),
		Accounts: operatorAccounts(program, authority, operator),
	}
}

func operatorAccounts(program, authority, operator types.Address) []codec.AccountMeta {
	return []codec.AccountMeta{
		signerWritable(authority),
		writable(types.CasinoAddress(program, authority)),
		readonly(operator),
	}
}
