package codec

import (
	"encoding/json"
	"testing"

	"onchaincasino/internal/types"
)

func TestDecodeTxEnvelope_OK(t *testing.T) {
	to := types.Address{1}
	b, err := json.Marshal(map[string]any{
		"type":  TxTypeBankMint,
		"value": BankMintTx{To: to, Amount: 123},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	env, err := DecodeTxEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeTxEnvelope: %v", err)
	}
	if env.Type != TxTypeBankMint {
		t.Fatalf("unexpected type: %q", env.Type)
	}

	var v BankMintTx
	if err := json.Unmarshal(env.Value, &v); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if v.To != to || v.Amount != 123 {
		t.Fatalf("unexpected value: %+v", v)
	}
}

func TestDecodeTxEnvelope_IgnoresUnknownFields(t *testing.T) {
	b, err := json.Marshal(map[string]any{
		"type":  TxTypeBankMint,
		"extra": "7",
		"value": map[string]any{"amount": 1},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	_, err = DecodeTxEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeTxEnvelope: %v", err)
	}
}

func TestDecodeTxEnvelope_MissingType(t *testing.T) {
	b, err := json.Marshal(map[string]any{
		"value": map[string]any{"x": 1},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	_, err = DecodeTxEnvelope(b)
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestDecodeTxEnvelope_InvalidJSON(t *testing.T) {
	_, err := DecodeTxEnvelope([]byte("{not json"))
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestCasinoExecTx_AccountAddressesAreHex(t *testing.T) {
	a := types.Address{0xab}
	b, err := json.Marshal(CasinoExecTx{
		Data:     []byte{1},
		Accounts: []AccountMeta{{Address: a, Signer: true, Writable: true}},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw struct {
		Accounts []map[string]any `json:"accounts"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := raw.Accounts[0]["address"]; got != a.String() {
		t.Fatalf("address encoded as %#v, want %q", got, a.String())
	}

	var back CasinoExecTx
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal exec: %v", err)
	}
	if back.Accounts[0].Address != a || !back.Accounts[0].Signer || !back.Accounts[0].Writable {
		t.Fatalf("unexpected account meta: %+v", back.Accounts[0])
	}
}
