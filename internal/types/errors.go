package types

import errorsmod "cosmossdk.io/errors"

// x/casino sentinel errors. Codes are part of the host boundary and must not
// be renumbered.
var (
	ErrInvalidInstruction     = errorsmod.Register(ModuleName, 1, "invalid instruction")
	ErrUnauthorized           = errorsmod.Register(ModuleName, 2, "unauthorized")
	ErrInvalidHouseEdge       = errorsmod.Register(ModuleName, 3, "invalid house edge")
	ErrInvalidBetAmount       = errorsmod.Register(ModuleName, 4, "invalid bet amount")
	ErrInsufficientFunds      = errorsmod.Register(ModuleName, 5, "insufficient funds")
	ErrGameAlreadyExists      = errorsmod.Register(ModuleName, 6, "game already exists")
	ErrGameNotFound           = errorsmod.Register(ModuleName, 7, "game not found")
	ErrGameAlreadySettled     = errorsmod.Register(ModuleName, 8, "game already settled")
	ErrExpectedAmountMismatch = errorsmod.Register(ModuleName, 9, "expected amount mismatch")
	ErrArithmeticOverflow     = errorsmod.Register(ModuleName, 10, "arithmetic overflow")
	ErrAddressMismatch        = errorsmod.Register(ModuleName, 11, "address mismatch")
	ErrNotRentExempt          = errorsmod.Register(ModuleName, 12, "not rent exempt")
)
