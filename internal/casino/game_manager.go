package casino

import (
	"fmt"

	"onchaincasino/internal/codec"
	"onchaincasino/internal/types"
)

// Accounts: [player(write,signer), config, game(write), allocator]
func (ex *execution) VisitPlaceBet(ix codec.PlaceBet) error {
	accs, err := expectAccounts(ex.accounts, codec.OpPlaceBet, 4)
	if err != nil {
		return err
	}
	player, config, game, allocator := accs[0], accs[1], accs[2], accs[3]

	if err := requireSigner(player, "player"); err != nil {
		return err
	}
	if err := requireWritable(player, "player"); err != nil {
		return err
	}
	if err := requireWritable(game, "game"); err != nil {
		return err
	}
	if err := requireAllocator(allocator); err != nil {
		return err
	}
	cfg, err := ex.loadConfig(config)
	if err != nil {
		return err
	}
	if err := requireDerived(game.Address, types.GameAddress(ex.program, ix.GameID), "game"); err != nil {
		return err
	}
	if err := validateBetAmount(ix.BetAmount, cfg.MinBet, cfg.MaxBet); err != nil {
		return err
	}
	if ex.host.HasRecord(game.Address) {
		return types.ErrGameAlreadyExists.Wrapf("game %s already exists", ix.GameID)
	}

	rec := types.GameRecord{
		GameID:    ix.GameID,
		Player:    player.Address,
		BetAmount: ix.BetAmount,
	}
	data := codec.EncodeGameRecord(rec)
	rent := ex.host.MinimumBalance(len(data))
	need, err := wagerCost(rent, ix.BetAmount)
	if err != nil {
		return err
	}
	if bal := ex.host.Balance(player.Address); bal < need {
		return types.ErrInsufficientFunds.Wrapf("player balance %d below bet %d plus record minimum %d", bal, ix.BetAmount, rent)
	}

	if err := ex.host.CreateRecord(player.Address, game.Address, rent, data); err != nil {
		return err
	}
	if err := ex.host.Transfer(player.Address, game.Address, ix.BetAmount); err != nil {
		return err
	}

	ex.result.Escrowed = ix.BetAmount
	ex.emit(types.EventTypeBetPlaced, map[string]string{
		"gameId":    ix.GameID.String(),
		"game":      game.Address.String(),
		"player":    player.Address.String(),
		"config":    config.Address.String(),
		"betAmount": fmt.Sprintf("%d", ix.BetAmount),
	})
	return nil
}

// Accounts: [operator(signer), config, game(write), player(write), allocator]
func (ex *execution) VisitSettleGame(ix codec.SettleGame) error {
	accs, err := expectAccounts(ex.accounts, codec.OpSettleGame, 5)
	if err != nil {
		return err
	}
	operator, config, game, player, allocator := accs[0], accs[1], accs[2], accs[3], accs[4]

	if err := requireSigner(operator, "operator"); err != nil {
		return err
	}
	if err := requireWritable(game, "game"); err != nil {
		return err
	}
	if err := requireWritable(player, "player"); err != nil {
		return err
	}
	if err := requireAllocator(allocator); err != nil {
		return err
	}
	cfg, err := ex.loadConfig(config)
	if err != nil {
		return err
	}
	if err := requireOperator(cfg, operator.Address); err != nil {
		return err
	}
	rec, err := ex.loadGame(game)
	if err != nil {
		return err
	}
	if rec.IsSettled {
		return types.ErrGameAlreadySettled.Wrapf("game %s already settled", rec.GameID)
	}
	if player.Address != rec.Player {
		return types.ErrAddressMismatch.Wrapf("player %s does not match wager player %s", player.Address, rec.Player)
	}

	if ix.IsWin {
		bound, err := MaxPayout(rec.BetAmount, cfg.HouseEdgeBps)
		if err != nil {
			return err
		}
		if ix.WinAmount > bound {
			return types.ErrExpectedAmountMismatch.Wrapf("win %d exceeds max payout %d", ix.WinAmount, bound)
		}
		if avail := ex.spendable(game.Address, codec.GameRecordSize); ix.WinAmount > avail {
			return types.ErrInsufficientFunds.Wrapf("escrow holds %d, payout needs %d", avail, ix.WinAmount)
		}
	}

	rec.IsSettled = true
	rec.IsWin = ix.IsWin
	rec.WinAmount = ix.WinAmount
	rec.ResultHash = ix.ResultHash

	if err := ex.host.WriteRecord(game.Address, codec.EncodeGameRecord(rec)); err != nil {
		return err
	}
	if ix.IsWin && ix.WinAmount > 0 {
		if err := ex.host.Transfer(game.Address, player.Address, ix.WinAmount); err != nil {
			return err
		}
		ex.result.PaidOut = ix.WinAmount
	}

	outcome := "lost"
	if ix.IsWin {
		outcome = "won"
	}
	ex.emit(types.EventTypeGameSettled, map[string]string{
		"gameId":     rec.GameID.String(),
		"game":       game.Address.String(),
		"player":     rec.Player.String(),
		"operator":   operator.Address.String(),
		"outcome":    outcome,
		"winAmount":  fmt.Sprintf("%d", ix.WinAmount),
		"resultHash": ix.ResultHash.String(),
	})
	return nil
}
