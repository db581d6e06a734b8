package state

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"onchaincasino/internal/types"
)

const (
	// RecordOverhead is charged on top of a record's data size by the rent rule.
	RecordOverhead = 128

	DefaultRentPerByte uint64 = 10
)

type Params struct {
	RentPerByte uint64 `json:"rentPerByte"`
}

// Account is a balance with optional record data. A record exists at an
// address iff Data is non-empty.
type Account struct {
	Balance uint64 `json:"balance"`
	Data    []byte `json:"data,omitempty"`
}

type State struct {
	Height int64  `json:"height"`
	Params Params `json:"params"`

	Accounts map[types.Address]*Account `json:"accounts"`
	NonceMax map[string]uint64          `json:"nonceMax,omitempty"` // signer -> last accepted tx.nonce (u64), for replay protection
}

func NewState(params Params) *State {
	if params.RentPerByte == 0 {
		params.RentPerByte = DefaultRentPerByte
	}
	return &State{
		Params:   params,
		Accounts: map[types.Address]*Account{},
		NonceMax: map[string]uint64{},
	}
}

// Load reads <home>/state.json, or returns a fresh state with params when the
// file does not exist yet. Stored params win over the supplied ones.
func Load(home string, params Params) (*State, error) {
	path := filepath.Join(home, "state.json")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(params), nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	st.normalize()
	return &st, nil
}

func (s *State) Save(home string) error {
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("mkdir home: %w", err)
	}
	path := filepath.Join(home, "state.json")
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

// Clone returns a deep copy of state suitable for staged tx execution.
func (s *State) Clone() (*State, error) {
	if s == nil {
		return nil, fmt.Errorf("state is nil")
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state clone: %w", err)
	}
	var out State
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode state clone: %w", err)
	}
	out.normalize()
	return &out, nil
}

func (s *State) normalize() {
	if s.Accounts == nil {
		s.Accounts = map[types.Address]*Account{}
	}
	for addr, acc := range s.Accounts {
		if acc == nil {
			delete(s.Accounts, addr)
		}
	}
	if s.NonceMax == nil {
		s.NonceMax = map[string]uint64{}
	}
	if s.Params.RentPerByte == 0 {
		s.Params.RentPerByte = DefaultRentPerByte
	}
}

func (s *State) AppHash() []byte {
	// Map iteration order is random; hash a normalized, sorted view.
	type accountKV struct {
		Addr    types.Address `json:"addr"`
		Balance uint64        `json:"balance"`
		Data    []byte        `json:"data,omitempty"`
	}
	type nonceKV struct {
		Signer string `json:"signer"`
		Nonce  uint64 `json:"nonce"`
	}

	accounts := make([]accountKV, 0, len(s.Accounts))
	for k, v := range s.Accounts {
		if v.Balance == 0 && len(v.Data) == 0 {
			continue
		}
		accounts = append(accounts, accountKV{Addr: k, Balance: v.Balance, Data: v.Data})
	}
	sort.Slice(accounts, func(i, j int) bool { return bytes.Compare(accounts[i].Addr[:], accounts[j].Addr[:]) < 0 })

	nonces := make([]nonceKV, 0, len(s.NonceMax))
	for k, v := range s.NonceMax {
		nonces = append(nonces, nonceKV{Signer: k, Nonce: v})
	}
	sort.Slice(nonces, func(i, j int) bool { return nonces[i].Signer < nonces[j].Signer })

	normalized := struct {
		Height   int64       `json:"height"`
		Params   Params      `json:"params"`
		Accounts []accountKV `json:"accounts"`
		NonceMax []nonceKV   `json:"nonceMax,omitempty"`
	}{
		Height:   s.Height,
		Params:   s.Params,
		Accounts: accounts,
		NonceMax: nonces,
	}

	b, _ := json.Marshal(normalized)
	sum := sha256.Sum256(b)
	return sum[:]
}

func (s *State) account(addr types.Address) *Account {
	acc := s.Accounts[addr]
	if acc == nil {
		acc = &Account{}
		s.Accounts[addr] = acc
	}
	return acc
}

// ---- Bank ----

func (s *State) Balance(addr types.Address) uint64 {
	if acc := s.Accounts[addr]; acc != nil {
		return acc.Balance
	}
	return 0
}

func (s *State) Credit(addr types.Address, amount uint64) error {
	bal := s.Balance(addr)
	if bal > ^uint64(0)-amount {
		return types.ErrArithmeticOverflow.Wrapf("balance overflow: have=%d add=%d", bal, amount)
	}
	s.account(addr).Balance = bal + amount
	return nil
}

func (s *State) Debit(addr types.Address, amount uint64) error {
	bal := s.Balance(addr)
	if bal < amount {
		return types.ErrInsufficientFunds.Wrapf("insufficient funds: have=%d need=%d", bal, amount)
	}
	if amount == 0 {
		return nil
	}
	s.account(addr).Balance = bal - amount
	return nil
}

// ---- Records (casino.Host) ----

// MinimumBalance is the rent-exempt balance for a record of size bytes.
func (s *State) MinimumBalance(size int) uint64 {
	if size < 0 {
		size = 0
	}
	return (uint64(size) + RecordOverhead) * s.Params.RentPerByte
}

func (s *State) HasRecord(addr types.Address) bool {
	acc := s.Accounts[addr]
	return acc != nil && len(acc.Data) > 0
}

func (s *State) Record(addr types.Address) ([]byte, error) {
	if !s.HasRecord(addr) {
		return nil, types.ErrGameNotFound.Wrapf("no record at %s", addr)
	}
	return append([]byte(nil), s.Accounts[addr].Data...), nil
}

// CreateRecord allocates a record at addr funded with lamports from payer. A
// plain balance already sitting at addr is kept.
func (s *State) CreateRecord(payer, addr types.Address, lamports uint64, data []byte) error {
	if len(data) == 0 {
		return types.ErrInvalidInstruction.Wrap("record data is empty")
	}
	if s.HasRecord(addr) {
		return types.ErrGameAlreadyExists.Wrapf("record %s already exists", addr)
	}
	if floor := s.MinimumBalance(len(data)); lamports < floor {
		return types.ErrNotRentExempt.Wrapf("record %s funded with %d, needs %d", addr, lamports, floor)
	}
	if s.Balance(payer) < lamports {
		return types.ErrInsufficientFunds.Wrapf("payer %s cannot fund record: have=%d need=%d", payer, s.Balance(payer), lamports)
	}
	if s.Balance(addr) > ^uint64(0)-lamports {
		return types.ErrArithmeticOverflow.Wrapf("record %s balance overflow", addr)
	}
	if err := s.Debit(payer, lamports); err != nil {
		return err
	}
	acc := s.account(addr)
	acc.Balance += lamports
	acc.Data = append([]byte(nil), data...)
	return nil
}

func (s *State) WriteRecord(addr types.Address, data []byte) error {
	if !s.HasRecord(addr) {
		return types.ErrGameNotFound.Wrapf("no record at %s", addr)
	}
	if len(data) == 0 {
		return types.ErrInvalidInstruction.Wrap("record data is empty")
	}
	acc := s.Accounts[addr]
	if floor := s.MinimumBalance(len(data)); acc.Balance < floor {
		return types.ErrNotRentExempt.Wrapf("record %s holds %d, needs %d for %d bytes", addr, acc.Balance, floor, len(data))
	}
	acc.Data = append([]byte(nil), data...)
	return nil
}

// Transfer moves value between balances. A record may not drop below its
// minimum balance.
func (s *State) Transfer(from, to types.Address, amount uint64) error {
	if from == to {
		return types.ErrInvalidInstruction.Wrap("transfer to self")
	}
	bal := s.Balance(from)
	if bal < amount {
		return types.ErrInsufficientFunds.Wrapf("insufficient funds: have=%d need=%d", bal, amount)
	}
	if s.HasRecord(from) {
		if floor := s.MinimumBalance(len(s.Accounts[from].Data)); bal-amount < floor {
			return types.ErrNotRentExempt.Wrapf("record %s would hold %d, needs %d", from, bal-amount, floor)
		}
	}
	if s.Balance(to) > ^uint64(0)-amount {
		return types.ErrArithmeticOverflow.Wrapf("balance overflow crediting %s", to)
	}
	if err := s.Debit(from, amount); err != nil {
		return err
	}
	return s.Credit(to, amount)
}
