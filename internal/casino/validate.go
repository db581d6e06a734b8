package casino

import (
	"onchaincasino/internal/codec"
	"onchaincasino/internal/types"
)

func requireSigner(acc Account, role string) error {
	if !acc.IsSigner {
		return types.ErrUnauthorized.Wrapf("%s %s did not sign", role, acc.Address)
	}
	return nil
}

func requireAuthority(cfg types.CasinoConfig, id types.Address) error {
	if id != cfg.Authority {
		return types.ErrUnauthorized.Wrapf("%s is not the casino authority", id)
	}
	return nil
}

func requireOperator(cfg types.CasinoConfig, id types.Address) error {
	if !cfg.Operators.Contains(id) {
		return types.ErrUnauthorized.Wrapf("%s is not a casino operator", id)
	}
	return nil
}

func validateHouseEdge(bps uint16) error {
	if bps > types.MaxHouseEdgeBps {
		return types.ErrInvalidHouseEdge.Wrapf("house edge %d bps exceeds %d", bps, types.MaxHouseEdgeBps)
	}
	return nil
}

func validateBetBounds(minBet, maxBet uint64) error {
	if minBet > maxBet {
		return types.ErrInvalidBetAmount.Wrapf("min bet %d exceeds max bet %d", minBet, maxBet)
	}
	return nil
}

func validateBetAmount(amount, minBet, maxBet uint64) error {
	if amount == 0 {
		return types.ErrInvalidBetAmount.Wrap("bet amount must be positive")
	}
	if amount < minBet || amount > maxBet {
		return types.ErrInvalidBetAmount.Wrapf("bet %d outside [%d, %d]", amount, minBet, maxBet)
	}
	return nil
}

func requireDerived(got, want types.Address, role string) error {
	if got != want {
		return types.ErrAddressMismatch.Wrapf("%s address %s, expected %s", role, got, want)
	}
	return nil
}

func requireWritable(acc Account, role string) error {
	if !acc.IsWritable {
		return types.ErrInvalidInstruction.Wrapf("%s account %s must be writable", role, acc.Address)
	}
	return nil
}

func requireAllocator(acc Account) error {
	if acc.Address != types.AllocatorID {
		return types.ErrInvalidInstruction.Wrapf("expected storage allocator %s, got %s", types.AllocatorID, acc.Address)
	}
	return nil
}

// expectAccounts returns the first n accounts of the record list. Extra
// trailing accounts are ignored.
func expectAccounts(accounts []Account, op codec.Opcode, n int) ([]Account, error) {
	if len(accounts) < n {
		return nil, types.ErrInvalidInstruction.Wrapf("%s expects %d accounts, got %d", op, n, len(accounts))
	}
	return accounts[:n], nil
}
