package app

import errorsmod "cosmossdk.io/errors"

// TxCodespace holds envelope and routing failures, separate from the casino
// engine's codespace.
const TxCodespace = "tx"

var (
	ErrInvalidTx      = errorsmod.Register(TxCodespace, 1, "invalid transaction")
	ErrUnknownTxType  = errorsmod.Register(TxCodespace, 2, "unknown transaction type")
	ErrInvalidNonce   = errorsmod.Register(TxCodespace, 3, "invalid tx.nonce")
	ErrReplayedNonce  = errorsmod.Register(TxCodespace, 4, "replayed tx.nonce")
	ErrInvalidSig     = errorsmod.Register(TxCodespace, 5, "invalid signature")
	ErrFaucetDisabled = errorsmod.Register(TxCodespace, 6, "faucet disabled")
	ErrInvalidQuery   = errorsmod.Register(TxCodespace, 7, "invalid query")
	ErrUnknownQuery   = errorsmod.Register(TxCodespace, 8, "unknown query path")
	ErrSignerMismatch = errorsmod.Register(TxCodespace, 9, "tx signer mismatch")
	ErrInternal       = errorsmod.Register(TxCodespace, 10, "internal error")
)
