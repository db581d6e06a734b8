package types

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

const (
	// ModuleName is the codespace used for registered errors and event routing.
	ModuleName = "casino"

	// AddressLen is the byte length of every identity and record address.
	AddressLen = 32

	programSeed   = "onchaincasino/program/v0"
	allocatorSeed = "onchaincasino/allocator/v0"
	deriveDomain  = "onchaincasino/derive/v0"

	// CasinoSeed tags configuration record addresses.
	CasinoSeed = "casino"
)

var (
	// ProgramID namespaces every derived address.
	ProgramID = Address(sha256.Sum256([]byte(programSeed)))

	// AllocatorID identifies the host's storage allocator. Instructions that
	// create records must pass it in the expected account slot.
	AllocatorID = Address(sha256.Sum256([]byte(allocatorSeed)))
)

// Address identifies an account: either a principal (ed25519 public key) or a
// derived record address.
type Address [AddressLen]byte

func (a Address) String() string { return hex.EncodeToString(a[:]) }

func (a Address) Bytes() []byte { return append([]byte(nil), a[:]...) }

func (a Address) IsZero() bool { return a == Address{} }

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(b []byte) error {
	parsed, err := ParseAddress(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress decodes a 64-character hex address.
func ParseAddress(s string) (Address, error) {
	var a Address
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("invalid address hex: %w", err)
	}
	if len(b) != AddressLen {
		return a, fmt.Errorf("invalid address length: got %d want %d", len(b), AddressLen)
	}
	copy(a[:], b)
	return a, nil
}

// AddressFromBytes copies a 32-byte slice into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, fmt.Errorf("invalid address length: got %d want %d", len(b), AddressLen)
	}
	copy(a[:], b)
	return a, nil
}

// DeriveAddress deterministically maps (program, seeds) to a record address.
//
// addr = sha256(DOMAIN || program || for each seed: u32le(len(seed)) || seed)
//
// Seeds are length-prefixed so distinct seed lists never share an encoding.
func DeriveAddress(program Address, seeds ...[]byte) Address {
	h := sha256.New()
	h.Write([]byte(deriveDomain))
	h.Write(program[:])
	var lenLE [4]byte
	for _, s := range seeds {
		binary.LittleEndian.PutUint32(lenLE[:], uint32(len(s)))
		h.Write(lenLE[:])
		h.Write(s)
	}
	var out Address
	copy(out[:], h.Sum(nil))
	return out
}

// CasinoAddress is the configuration record address owned by authority.
func CasinoAddress(program Address, authority Address) Address {
	return DeriveAddress(program, []byte(CasinoSeed), authority[:])
}

// GameAddress is the game record address for a wager id.
func GameAddress(program Address, gameID Hash) Address {
	return DeriveAddress(program, gameID[:])
}

// Hash is an opaque 32-byte value: a wager id or a settlement result hash.
type Hash [32]byte

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(b []byte) error {
	parsed, err := ParseHash(string(b))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHash decodes a 64-character hex hash.
func ParseHash(s string) (Hash, error) {
	a, err := ParseAddress(s)
	if err != nil {
		return Hash{}, err
	}
	return Hash(a), nil
}
