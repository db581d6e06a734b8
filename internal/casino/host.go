package casino

import "onchaincasino/internal/types"

// Host is the ledger capability surface the engine calls into. The host owns
// storage, signature verification and per-instruction atomicity; the engine
// only reads, validates and then requests writes and transfers.
type Host interface {
	// MinimumBalance is the balance a record of size bytes must keep. It is
	// monotonic in size.
	MinimumBalance(size int) uint64
	Balance(addr types.Address) uint64
	HasRecord(addr types.Address) bool
	// Record returns the stored bytes, or ErrGameNotFound if absent.
	Record(addr types.Address) ([]byte, error)
	// CreateRecord moves lamports from payer into a new record at addr. It
	// fails with ErrGameAlreadyExists if a record is already present.
	CreateRecord(payer, addr types.Address, lamports uint64, data []byte) error
	WriteRecord(addr types.Address, data []byte) error
	Transfer(from, to types.Address, amount uint64) error
}

// Account is one resolved entry of an instruction's record list. IsSigner is
// set by the host only after it verified the signature.
type Account struct {
	Address    types.Address
	IsSigner   bool
	IsWritable bool
}
