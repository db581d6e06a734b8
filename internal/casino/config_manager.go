package casino

import (
	"fmt"

	"onchaincasino/internal/codec"
	"onchaincasino/internal/types"
)

// Accounts: [authority(write,signer), config(write), allocator]
func (ex *execution) VisitInitialize(ix codec.Initialize) error {
	accs, err := expectAccounts(ex.accounts, codec.OpInitialize, 3)
	if err != nil {
		return err
	}
	authority, config, allocator := accs[0], accs[1], accs[2]

	if err := requireSigner(authority, "authority"); err != nil {
		return err
	}
	if err := requireWritable(authority, "authority"); err != nil {
		return err
	}
	if err := requireWritable(config, "config"); err != nil {
		return err
	}
	if err := requireAllocator(allocator); err != nil {
		return err
	}
	if err := requireDerived(config.Address, types.CasinoAddress(ex.program, authority.Address), "config"); err != nil {
		return err
	}
	if ex.host.HasRecord(config.Address) {
		return types.ErrGameAlreadyExists.Wrapf("casino config %s already initialized", config.Address)
	}
	if err := validateHouseEdge(ix.HouseEdgeBps); err != nil {
		return err
	}
	if err := validateBetBounds(ix.MinBet, ix.MaxBet); err != nil {
		return err
	}

	cfg := types.CasinoConfig{
		Authority:    authority.Address,
		HouseEdgeBps: ix.HouseEdgeBps,
		MinBet:       ix.MinBet,
		MaxBet:       ix.MaxBet,
		Operators:    types.NewOperatorSet(authority.Address),
	}
	data := codec.EncodeCasinoConfig(cfg)
	rent := ex.host.MinimumBalance(len(data))
	if bal := ex.host.Balance(authority.Address); bal < rent {
		return types.ErrInsufficientFunds.Wrapf("authority balance %d below record minimum %d", bal, rent)
	}

	if err := ex.host.CreateRecord(authority.Address, config.Address, rent, data); err != nil {
		return err
	}

	ex.emit(types.EventTypeCasinoInitialized, map[string]string{
		"authority":    authority.Address.String(),
		"config":       config.Address.String(),
		"houseEdgeBps": fmt.Sprintf("%d", cfg.HouseEdgeBps),
		"minBet":       fmt.Sprintf("%d", cfg.MinBet),
		"maxBet":       fmt.Sprintf("%d", cfg.MaxBet),
	})
	return nil
}

// Accounts: [authority(write,signer), config(write)]
func (ex *execution) VisitUpdateParams(ix codec.UpdateParams) error {
	accs, err := expectAccounts(ex.accounts, codec.OpUpdateParams, 2)
	if err != nil {
		return err
	}
	authority, config := accs[0], accs[1]

	if err := requireSigner(authority, "authority"); err != nil {
		return err
	}
	if err := requireWritable(config, "config"); err != nil {
		return err
	}
	cfg, err := ex.loadConfig(config)
	if err != nil {
		return err
	}
	if err := requireAuthority(cfg, authority.Address); err != nil {
		return err
	}

	if ix.HouseEdgeBps != nil {
		if err := validateHouseEdge(*ix.HouseEdgeBps); err != nil {
			return err
		}
		cfg.HouseEdgeBps = *ix.HouseEdgeBps
	}
	if ix.MinBet != nil {
		cfg.MinBet = *ix.MinBet
	}
	if ix.MaxBet != nil {
		cfg.MaxBet = *ix.MaxBet
	}
	// Bounds are checked on the resulting pair only.
	if err := validateBetBounds(cfg.MinBet, cfg.MaxBet); err != nil {
		return err
	}

	if err := ex.host.WriteRecord(config.Address, codec.EncodeCasinoConfig(cfg)); err != nil {
		return err
	}

	ex.emit(types.EventTypeParamsUpdated, map[string]string{
		"config":       config.Address.String(),
		"houseEdgeBps": fmt.Sprintf("%d", cfg.HouseEdgeBps),
		"minBet":       fmt.Sprintf("%d", cfg.MinBet),
		"maxBet":       fmt.Sprintf("%d", cfg.MaxBet),
	})
	return nil
}

// Accounts: [authority(write,signer), config(write), operator]
func (ex *execution) VisitAddOperator(codec.AddOperator) error {
	authority, config, operator, cfg, err := ex.operatorAccounts(codec.OpAddOperator)
	if err != nil {
		return err
	}

	if !cfg.Operators.Add(operator.Address) {
		ex.emitOperatorUnchanged(config, operator, "already an operator")
		return nil
	}

	data := codec.EncodeCasinoConfig(cfg)
	// A larger record needs a larger minimum balance; the authority funds it.
	var topUp uint64
	if need, have := ex.host.MinimumBalance(len(data)), ex.host.Balance(config.Address); need > have {
		topUp = need - have
	}
	if bal := ex.host.Balance(authority.Address); bal < topUp {
		return types.ErrInsufficientFunds.Wrapf("authority balance %d cannot fund record growth %d", bal, topUp)
	}

	if topUp > 0 {
		if err := ex.host.Transfer(authority.Address, config.Address, topUp); err != nil {
			return err
		}
	}
	if err := ex.host.WriteRecord(config.Address, data); err != nil {
		return err
	}

	ex.emit(types.EventTypeOperatorAdded, map[string]string{
		"config":    config.Address.String(),
		"operator":  operator.Address.String(),
		"operators": fmt.Sprintf("%d", cfg.Operators.Len()),
	})
	return nil
}

// Accounts: [authority(write,signer), config(write), operator]
func (ex *execution) VisitRemoveOperator(codec.RemoveOperator) error {
	_, config, operator, cfg, err := ex.operatorAccounts(codec.OpRemoveOperator)
	if err != nil {
		return err
	}
	if operator.Address == cfg.Authority {
		return types.ErrUnauthorized.Wrap("the authority cannot be removed from the operator set")
	}

	if !cfg.Operators.Remove(operator.Address) {
		ex.emitOperatorUnchanged(config, operator, "not an operator")
		return nil
	}
	if err := ex.host.WriteRecord(config.Address, codec.EncodeCasinoConfig(cfg)); err != nil {
		return err
	}

	ex.emit(types.EventTypeOperatorRemoved, map[string]string{
		"config":    config.Address.String(),
		"operator":  operator.Address.String(),
		"operators": fmt.Sprintf("%d", cfg.Operators.Len()),
	})
	return nil
}

// operatorAccounts runs the checks shared by AddOperator and RemoveOperator.
func (ex *execution) operatorAccounts(op codec.Opcode) (authority, config, operator Account, cfg types.CasinoConfig, err error) {
	accs, err := expectAccounts(ex.accounts, op, 3)
	if err != nil {
		return
	}
	authority, config, operator = accs[0], accs[1], accs[2]

	if err = requireSigner(authority, "authority"); err != nil {
		return
	}
	if err = requireWritable(authority, "authority"); err != nil {
		return
	}
	if err = requireWritable(config, "config"); err != nil {
		return
	}
	if cfg, err = ex.loadConfig(config); err != nil {
		return
	}
	err = requireAuthority(cfg, authority.Address)
	return
}

func (ex *execution) emitOperatorUnchanged(config, operator Account, reason string) {
	ex.emit(types.EventTypeOperatorUnchanged, map[string]string{
		"config":   config.Address.String(),
		"operator": operator.Address.String(),
		"reason":   reason,
	})
}
