package app

import (
	"crypto/ed25519"
	"strconv"

	"onchaincasino/internal/casino"
	"onchaincasino/internal/codec"
	"onchaincasino/internal/state"
	"onchaincasino/internal/types"
)

func requireSignedEnvelope(env codec.TxEnvelope) error {
	if env.Nonce == "" {
		return ErrInvalidNonce.Wrap("missing tx.nonce")
	}
	if env.Signer == "" {
		return ErrInvalidSig.Wrap("missing tx.signer")
	}
	if len(env.Sig) == 0 {
		return ErrInvalidSig.Wrap("missing tx.sig")
	}
	if len(env.Sig) != ed25519.SignatureSize {
		return ErrInvalidSig.Wrapf("invalid tx.sig length: got %d want %d", len(env.Sig), ed25519.SignatureSize)
	}
	return nil
}

// verifyEnvelope checks the envelope signature and returns the signing
// identity with the parsed nonce. It does not consult state.
func verifyEnvelope(env codec.TxEnvelope) (types.Address, uint64, error) {
	if err := requireSignedEnvelope(env); err != nil {
		return types.Address{}, 0, err
	}
	nonce, err := strconv.ParseUint(env.Nonce, 10, 64)
	if err != nil {
		return types.Address{}, 0, ErrInvalidNonce.Wrapf("invalid tx.nonce %q: must be a base-10 u64", env.Nonce)
	}
	signer, err := types.ParseAddress(env.Signer)
	if err != nil {
		return types.Address{}, 0, ErrInvalidSig.Wrapf("tx.signer: %v", err)
	}
	msg := codec.TxSignBytesV0(env.Type, env.Value, env.Nonce, env.Signer)
	if !ed25519.Verify(ed25519.PublicKey(signer[:]), msg, env.Sig) {
		return types.Address{}, 0, ErrInvalidSig
	}
	return signer, nonce, nil
}

// consumeNonce enforces the per-signer strictly increasing nonce and records it.
func consumeNonce(st *state.State, signer types.Address, nonce uint64) error {
	key := signer.String()
	if last, ok := st.NonceMax[key]; ok && nonce <= last {
		return ErrReplayedNonce.Wrapf("replayed tx.nonce %d: last accepted %d", nonce, last)
	}
	st.NonceMax[key] = nonce
	return nil
}

// authenticate verifies env, consumes its nonce and returns the signer.
func authenticate(st *state.State, env codec.TxEnvelope) (types.Address, error) {
	signer, nonce, err := verifyEnvelope(env)
	if err != nil {
		return types.Address{}, err
	}
	if err := consumeNonce(st, signer, nonce); err != nil {
		return types.Address{}, err
	}
	return signer, nil
}

// resolveAccounts turns caller-supplied metas into engine accounts. A meta may
// claim signer status only for the identity that signed the envelope.
func resolveAccounts(metas []codec.AccountMeta, signer types.Address) ([]casino.Account, error) {
	out := make([]casino.Account, 0, len(metas))
	for i, m := range metas {
		if m.Signer && m.Address != signer {
			return nil, types.ErrUnauthorized.Wrapf("accounts[%d] %s claims signer but tx is signed by %s", i, m.Address, signer)
		}
		out = append(out, casino.Account{
			Address:    m.Address,
			IsSigner:   m.Signer,
			IsWritable: m.Writable,
		})
	}
	return out, nil
}
