package app

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	abci "github.com/cometbft/cometbft/abci/types"

	"onchaincasino/internal/casino"
	"onchaincasino/internal/codec"
	"onchaincasino/internal/metrics"
	"onchaincasino/internal/state"
	"onchaincasino/internal/types"
)

const (
	AppVersion uint64 = 1
)

// The ledger is the host the casino engine runs against.
var _ casino.Host = (*state.State)(nil)

type Options struct {
	// Params seeds a fresh ledger. A persisted ledger keeps its own.
	Params state.Params
	// Faucet enables bank/mint.
	Faucet bool
	Logger log.Logger
}

type CasinoApp struct {
	*abci.BaseApplication

	home      string
	faucet    bool
	logger    log.Logger
	processor *casino.Processor

	mu       sync.Mutex
	st       *state.State
	lastHash []byte
}

func New(home string, opts Options) (*CasinoApp, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	params := opts.Params
	if params.RentPerByte == 0 {
		params.RentPerByte = state.DefaultRentPerByte
	}

	st, err := state.Load(filepath.Join(home, "app"), params)
	if err != nil {
		return nil, err
	}
	a := &CasinoApp{
		BaseApplication: abci.NewBaseApplication(),
		home:            home,
		faucet:          opts.Faucet,
		logger:          logger.With("module", "app"),
		processor:       casino.NewProcessor(types.ProgramID, logger),
		st:              st,
		lastHash:        st.AppHash(),
	}
	a.logger.Info("ledger loaded", "height", st.Height, "rentPerByte", st.Params.RentPerByte, "faucet", opts.Faucet)
	return a, nil
}

func (a *CasinoApp) Info(_ context.Context, _ *abci.InfoRequest) (*abci.InfoResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return &abci.InfoResponse{
		Data:             "onchaincasino (v0)",
		Version:          "v0",
		AppVersion:       AppVersion,
		LastBlockHeight:  a.st.Height,
		LastBlockAppHash: a.lastHash,
	}, nil
}

// CheckTx runs the stateless checks: envelope shape, known type and, for
// signed types, the signature.
func (a *CasinoApp) CheckTx(_ context.Context, req *abci.CheckTxRequest) (*abci.CheckTxResponse, error) {
	err := a.checkTx(req.Tx)
	if err != nil {
		codespace, code, msg := errorsmod.ABCIInfo(err, false)
		return &abci.CheckTxResponse{Code: code, Codespace: codespace, Log: msg}, nil
	}
	return &abci.CheckTxResponse{Code: abci.CodeTypeOK}, nil
}

func (a *CasinoApp) checkTx(txBytes []byte) error {
	env, err := codec.DecodeTxEnvelope(txBytes)
	if err != nil {
		return ErrInvalidTx.Wrap(err.Error())
	}
	switch env.Type {
	case codec.TxTypeBankMint:
		if !a.faucet {
			return ErrFaucetDisabled
		}
		return nil
	case codec.TxTypeBankSend, codec.TxTypeCasinoExec:
		_, _, err := verifyEnvelope(env)
		return err
	default:
		return ErrUnknownTxType.Wrap(env.Type)
	}
}

func (a *CasinoApp) InitChain(_ context.Context, _ *abci.InitChainRequest) (*abci.InitChainResponse, error) {
	// v0: genesis is an empty ledger; funds arrive through the faucet.
	return &abci.InitChainResponse{}, nil
}

func (a *CasinoApp) FinalizeBlock(_ context.Context, req *abci.FinalizeBlockRequest) (*abci.FinalizeBlockResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.st.Height = req.Height

	txResults := make([]*abci.ExecTxResult, 0, len(req.Txs))
	for _, txBytes := range req.Txs {
		res := a.deliverTx(txBytes, req.Height)
		txResults = append(txResults, res)
	}

	a.lastHash = a.st.AppHash()
	metrics.BlockHeight.Set(float64(req.Height))

	return &abci.FinalizeBlockResponse{
		TxResults: txResults,
		AppHash:   a.lastHash,
	}, nil
}

func (a *CasinoApp) Commit(_ context.Context, _ *abci.CommitRequest) (*abci.CommitResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	if err := a.st.Save(filepath.Join(a.home, "app")); err != nil {
		// Returning the error halts the node instead of diverging from the hash.
		a.logger.Error("persist state", "height", a.st.Height, "err", err)
		return nil, err
	}
	metrics.ObserveCommit(start)
	return &abci.CommitResponse{}, nil
}

func (a *CasinoApp) deliverTx(txBytes []byte, height int64) *abci.ExecTxResult {
	env, err := codec.DecodeTxEnvelope(txBytes)
	if err != nil {
		return a.reject("", ErrInvalidTx.Wrap(err.Error()))
	}

	var res *abci.ExecTxResult
	switch env.Type {
	case codec.TxTypeBankMint:
		res, err = a.deliverMint(env)
	case codec.TxTypeBankSend:
		res, err = a.deliverSend(env)
	case codec.TxTypeCasinoExec:
		res, err = a.deliverCasino(env, height)
	default:
		err = ErrUnknownTxType.Wrap(env.Type)
	}
	if err != nil {
		return a.reject(env.Type, err)
	}
	metrics.ObserveTx(env.Type, "", res.Code)
	return res
}

// reject maps err to a failed tx result. This is the only place engine and
// envelope errors become flat codes.
func (a *CasinoApp) reject(typ string, err error) *abci.ExecTxResult {
	codespace, code, msg := errorsmod.ABCIInfo(err, false)
	metrics.ObserveTx(typ, codespace, code)
	a.logger.Debug("tx rejected", "type", typ, "codespace", codespace, "code", code, "err", err)
	return &abci.ExecTxResult{Code: code, Codespace: codespace, Log: msg}
}

func (a *CasinoApp) deliverMint(env codec.TxEnvelope) (*abci.ExecTxResult, error) {
	if !a.faucet {
		return nil, ErrFaucetDisabled
	}
	var msg codec.BankMintTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return nil, ErrInvalidTx.Wrap("bad bank/mint value")
	}
	if msg.To.IsZero() || msg.Amount == 0 {
		return nil, ErrInvalidTx.Wrap("missing to/amount")
	}
	if err := a.st.Credit(msg.To, msg.Amount); err != nil {
		return nil, err
	}
	return okEvent("BankMinted", map[string]string{
		"to":     msg.To.String(),
		"amount": fmt.Sprintf("%d", msg.Amount),
	}), nil
}

func (a *CasinoApp) deliverSend(env codec.TxEnvelope) (*abci.ExecTxResult, error) {
	var msg codec.BankSendTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return nil, ErrInvalidTx.Wrap("bad bank/send value")
	}
	if msg.From.IsZero() || msg.To.IsZero() || msg.Amount == 0 {
		return nil, ErrInvalidTx.Wrap("missing from/to/amount")
	}
	signer, err := authenticate(a.st, env)
	if err != nil {
		return nil, err
	}
	if signer != msg.From {
		return nil, ErrSignerMismatch.Wrapf("tx signer mismatch: signer=%s from=%s", signer, msg.From)
	}
	if err := a.st.Transfer(msg.From, msg.To, msg.Amount); err != nil {
		return nil, err
	}
	return okEvent("BankSent", map[string]string{
		"from":   msg.From.String(),
		"to":     msg.To.String(),
		"amount": fmt.Sprintf("%d", msg.Amount),
	}), nil
}

// deliverCasino executes one instruction against a staged copy of the ledger
// and swaps it in only on success. The nonce is consumed either way.
func (a *CasinoApp) deliverCasino(env codec.TxEnvelope, height int64) (*abci.ExecTxResult, error) {
	var msg codec.CasinoExecTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return nil, ErrInvalidTx.Wrap("bad casino/exec value")
	}
	signer, err := authenticate(a.st, env)
	if err != nil {
		return nil, err
	}
	accounts, err := resolveAccounts(msg.Accounts, signer)
	if err != nil {
		metrics.ObserveInstruction("unknown", resultLabel(err), 0, 0)
		return nil, err
	}

	ix, err := codec.DecodeInstruction(msg.Data)
	if err != nil {
		metrics.ObserveInstruction("unknown", resultLabel(err), 0, 0)
		return nil, err
	}
	op := ix.Opcode().String()

	staged, err := a.st.Clone()
	if err != nil {
		return nil, ErrInternal.Wrapf("stage state: %v", err)
	}
	res, err := a.processor.Execute(staged, accounts, ix)
	if err != nil {
		metrics.ObserveInstruction(op, resultLabel(err), 0, 0)
		return nil, err
	}
	a.st = staged
	metrics.ObserveInstruction(op, "ok", res.Escrowed, res.PaidOut)
	a.logger.Debug("casino instruction", "height", height, "op", op, "signer", signer.String())

	attrs := make(map[string]string, len(res.Attributes)+1)
	for k, v := range res.Attributes {
		attrs[k] = v
	}
	attrs["op"] = op
	return okEvent(res.Event, attrs), nil
}

func resultLabel(err error) string {
	codespace, code, _ := errorsmod.ABCIInfo(err, false)
	return fmt.Sprintf("%s/%d", codespace, code)
}

func okEvent(typ string, attrs map[string]string) *abci.ExecTxResult {
	ev := abci.Event{Type: typ}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ev.Attributes = append(ev.Attributes, abci.EventAttribute{Key: k, Value: attrs[k], Index: true})
	}
	return &abci.ExecTxResult{
		Code:   abci.CodeTypeOK,
		Events: []abci.Event{ev},
	}
}
