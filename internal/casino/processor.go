package casino

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	"onchaincasino/internal/codec"
	"onchaincasino/internal/types"
)

// Result describes a successfully applied instruction.
type Result struct {
	Op         codec.Opcode
	Event      string
	Attributes map[string]string

	// Escrowed is the stake moved from a player into a game record.
	Escrowed uint64
	// PaidOut is the value moved from a game record to its player.
	PaidOut uint64
}

// Processor executes casino instructions against a Host.
type Processor struct {
	program types.Address
	logger  log.Logger
}

func NewProcessor(program types.Address, logger log.Logger) *Processor {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Processor{
		program: program,
		logger:  logger.With("module", "x/"+types.ModuleName),
	}
}

func (p *Processor) Program() types.Address { return p.program }

// Process decodes data and executes it. Every check runs before the first
// write or transfer, so a returned error means the host saw no mutation.
func (p *Processor) Process(host Host, accounts []Account, data []byte) (*Result, error) {
	ix, err := codec.DecodeInstruction(data)
	if err != nil {
		return nil, err
	}
	return p.Execute(host, accounts, ix)
}

// Execute runs an already decoded instruction.
func (p *Processor) Execute(host Host, accounts []Account, ix codec.Instruction) (*Result, error) {
	if host == nil {
		return nil, types.ErrInvalidInstruction.Wrap("no host ledger")
	}
	ex := &execution{program: p.program, host: host, accounts: accounts}
	if err := ix.Accept(ex); err != nil {
		p.logger.Debug("instruction rejected", "op", ix.Opcode().String(), "err", err)
		return nil, err
	}
	ex.result.Op = ix.Opcode()
	p.logger.Info("instruction applied", "op", ix.Opcode().String(), "event", ex.result.Event)
	return &ex.result, nil
}

// execution carries one instruction through its handler.
type execution struct {
	program  types.Address
	host     Host
	accounts []Account
	result   Result
}

var _ codec.Visitor = (*execution)(nil)

func (ex *execution) emit(event string, attrs map[string]string) {
	ex.result.Event = event
	ex.result.Attributes = attrs
}

// loadConfig reads and decodes the configuration record at acc and checks it
// lives at the address derived from its own authority.
func (ex *execution) loadConfig(acc Account) (types.CasinoConfig, error) {
	data, err := ex.host.Record(acc.Address)
	if err != nil {
		return types.CasinoConfig{}, errorsmod.Wrap(err, "casino config")
	}
	cfg, err := codec.DecodeCasinoConfig(data)
	if err != nil {
		return types.CasinoConfig{}, err
	}
	if err := requireDerived(acc.Address, types.CasinoAddress(ex.program, cfg.Authority), "config"); err != nil {
		return types.CasinoConfig{}, err
	}
	return cfg, nil
}

// loadGame reads and decodes the game record at acc and checks it lives at the
// address derived from its game id.
func (ex *execution) loadGame(acc Account) (types.GameRecord, error) {
	data, err := ex.host.Record(acc.Address)
	if err != nil {
		return types.GameRecord{}, errorsmod.Wrap(err, "game")
	}
	g, err := codec.DecodeGameRecord(data)
	if err != nil {
		return types.GameRecord{}, err
	}
	if err := requireDerived(acc.Address, types.GameAddress(ex.program, g.GameID), "game"); err != nil {
		return types.GameRecord{}, err
	}
	return g, nil
}

// spendable is the balance a record holds above its minimum balance.
func (ex *execution) spendable(addr types.Address, size int) uint64 {
	bal := ex.host.Balance(addr)
	floor := ex.host.MinimumBalance(size)
	if bal <= floor {
		return 0
	}
	return bal - floor
}
