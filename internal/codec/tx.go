package codec

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"onchaincasino/internal/types"
)

const (
	TxTypeBankMint   = "bank/mint"
	TxTypeBankSend   = "bank/send"
	TxTypeCasinoExec = "casino/exec"
)

// TxEnvelope is the transaction container.
//
// CometBFT transactions are opaque bytes; the envelope is JSON and carries the
// routing type plus the ed25519 auth fields:
// - Nonce: included in the signed message for replay protection (must increase per signer).
// - Signer: hex ed25519 public key of the signing identity.
// - Sig: Ed25519 signature over (type, nonce, signer, sha256(value)).
type TxEnvelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`

	Nonce  string `json:"nonce,omitempty"`
	Signer string `json:"signer,omitempty"`
	Sig    []byte `json:"sig,omitempty"`
}

func DecodeTxEnvelope(txBytes []byte) (TxEnvelope, error) {
	var env TxEnvelope
	if err := json.Unmarshal(txBytes, &env); err != nil {
		return TxEnvelope{}, fmt.Errorf("invalid tx json: %w", err)
	}
	if env.Type == "" {
		return TxEnvelope{}, fmt.Errorf("missing tx.type")
	}
	return env, nil
}

// TxAuthDomainV0 separates envelope signatures from any other use of the key.
const TxAuthDomainV0 = "onchaincasino/tx/v0"

// TxSignBytesV0 is the message an envelope signature covers.
func TxSignBytesV0(typ string, value []byte, nonce string, signer string) []byte {
	// signBytes = DOMAIN || 0x00 || type || 0x00 || nonce || 0x00 || signer || 0x00 || sha256(value)
	sum := sha256.Sum256(value)
	out := make([]byte, 0, len(TxAuthDomainV0)+1+len(typ)+1+len(nonce)+1+len(signer)+1+sha256.Size)
	out = append(out, []byte(TxAuthDomainV0)...)
	out = append(out, 0)
	out = append(out, []byte(typ)...)
	out = append(out, 0)
	out = append(out, []byte(nonce)...)
	out = append(out, 0)
	out = append(out, []byte(signer)...)
	out = append(out, 0)
	out = append(out, sum[:]...)
	return out
}

// ---- Bank ----

// BankMintTx credits a balance out of thin air. Only accepted when the node
// runs with the devnet faucet enabled.
type BankMintTx struct {
	To     types.Address `json:"to"`
	Amount uint64        `json:"amount"`
}

type BankSendTx struct {
	From   types.Address `json:"from"`
	To     types.Address `json:"to"`
	Amount uint64        `json:"amount"`
}

// ---- Casino ----

// AccountMeta is one entry of an instruction's ordered record list.
type AccountMeta struct {
	Address  types.Address `json:"address"`
	Signer   bool          `json:"signer,omitempty"`
	Writable bool          `json:"writable,omitempty"`
}

// CasinoExecTx carries one wire-encoded instruction and its record list.
type CasinoExecTx struct {
	Data     []byte        `json:"data"` // base64 in JSON
	Accounts []AccountMeta `json:"accounts"`
}
