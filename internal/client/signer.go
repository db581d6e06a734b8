package client

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"strconv"

	"onchaincasino/internal/codec"
	"onchaincasino/internal/types"
)

// Signer signs envelopes for one ed25519 identity. Nonces are handed out in
// increasing order starting at the value given to NewSigner.
type Signer struct {
	key   ed25519.PrivateKey
	nonce uint64
}

func NewSigner(key ed25519.PrivateKey, firstNonce uint64) *Signer {
	return &Signer{key: key, nonce: firstNonce}
}

// SignerFromSeed builds a Signer from a 32-byte ed25519 seed.
func SignerFromSeed(seed []byte, firstNonce uint64) (*Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return NewSigner(ed25519.NewKeyFromSeed(seed), firstNonce), nil
}

// Address is the identity the signer authenticates as: its public key.
func (s *Signer) Address() types.Address {
	var a types.Address
	copy(a[:], s.key.Public().(ed25519.PublicKey))
	return a
}

// Sign marshals value and wraps it in a signed envelope of type typ.
func (s *Signer) Sign(typ string, value any) (codec.TxEnvelope, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return codec.TxEnvelope{}, fmt.Errorf("marshal %s value: %w", typ, err)
	}
	nonce := strconv.FormatUint(s.nonce, 10)
	signer := s.Address().String()
	env := codec.TxEnvelope{
		Type:   typ,
		Value:  raw,
		Nonce:  nonce,
		Signer: signer,
		Sig:    ed25519.Sign(s.key, codec.TxSignBytesV0(typ, raw, nonce, signer)),
	}
	s.nonce++
	return env, nil
}

// SignInstruction wraps ix as a signed casino/exec envelope.
func (s *Signer) SignInstruction(ix Instruction) (codec.TxEnvelope, error) {
	return s.Sign(codec.TxTypeCasinoExec, ix.Tx())
}

// EncodeEnvelope returns the transaction bytes to broadcast.
func EncodeEnvelope(env codec.TxEnvelope) ([]byte, error) {
	return json.Marshal(env)
}
