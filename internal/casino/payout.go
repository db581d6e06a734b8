package casino

import (
	"math/bits"

	"onchaincasino/internal/types"
)

// MaxPayout is the largest admissible win for a stake under the given house
// edge: floor(bet * 10000 / (10000 - houseEdgeBps)).
//
// A house edge of 100% or more has no defined bound and fails closed.
func MaxPayout(betAmount uint64, houseEdgeBps uint16) (uint64, error) {
	if uint64(houseEdgeBps) >= types.BasisPoints {
		return 0, types.ErrInvalidHouseEdge.Wrapf("house edge %d bps leaves no payout denominator", houseEdgeBps)
	}
	hi, num := bits.Mul64(betAmount, types.BasisPoints)
	if hi != 0 {
		return 0, types.ErrArithmeticOverflow.Wrapf("bet %d scaled to basis points", betAmount)
	}
	return num / (types.BasisPoints - uint64(houseEdgeBps)), nil
}

// wagerCost is what a player must hold to open a wager: the game record's
// minimum balance plus the stake.
func wagerCost(rent, bet uint64) (uint64, error) {
	sum, carry := bits.Add64(rent, bet, 0)
	if carry != 0 {
		return 0, types.ErrArithmeticOverflow.Wrapf("record minimum %d plus bet %d", rent, bet)
	}
	return sum, nil
}
