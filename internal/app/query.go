package app

import (
	"context"
	"encoding/json"
	"strings"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"

	"onchaincasino/internal/codec"
	"onchaincasino/internal/types"
)

// AccountView is the /account/<addr> response.
type AccountView struct {
	Address   types.Address `json:"address"`
	Balance   uint64        `json:"balance"`
	HasRecord bool          `json:"hasRecord"`
	DataLen   int           `json:"dataLen"`
	// MinimumBalance is set for record accounts only.
	MinimumBalance uint64 `json:"minimumBalance,omitempty"`
}

// ConfigView is the /config/<authority> response.
type ConfigView struct {
	Address types.Address      `json:"address"`
	Balance uint64             `json:"balance"`
	Config  types.CasinoConfig `json:"config"`
}

// GameView is the /game/<game_id> response.
type GameView struct {
	Address types.Address    `json:"address"`
	Balance uint64           `json:"balance"`
	Game    types.GameRecord `json:"game"`
}

// Query paths:
// - /account/<addr>
// - /config/<authority>
// - /game/<game_id>
// - /address/casino/<authority>
// - /address/game/<game_id>
func (a *CasinoApp) Query(_ context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	v, err := a.query(strings.TrimSpace(req.Path))
	if err != nil {
		codespace, code, msg := errorsmod.ABCIInfo(err, false)
		return &abci.QueryResponse{Code: code, Codespace: codespace, Log: msg, Height: a.st.Height}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return &abci.QueryResponse{Code: ErrInternal.ABCICode(), Codespace: TxCodespace, Log: err.Error(), Height: a.st.Height}, nil
	}
	return &abci.QueryResponse{Code: abci.CodeTypeOK, Value: b, Height: a.st.Height}, nil
}

func (a *CasinoApp) query(path string) (any, error) {
	program := a.processor.Program()
	switch {
	case strings.HasPrefix(path, "/account/"):
		addr, err := types.ParseAddress(strings.TrimPrefix(path, "/account/"))
		if err != nil {
			return nil, ErrInvalidQuery.Wrap(err.Error())
		}
		view := AccountView{Address: addr, Balance: a.st.Balance(addr), HasRecord: a.st.HasRecord(addr)}
		if view.HasRecord {
			data, err := a.st.Record(addr)
			if err != nil {
				return nil, err
			}
			view.DataLen = len(data)
			view.MinimumBalance = a.st.MinimumBalance(len(data))
		}
		return view, nil

	case strings.HasPrefix(path, "/config/"):
		authority, err := types.ParseAddress(strings.TrimPrefix(path, "/config/"))
		if err != nil {
			return nil, ErrInvalidQuery.Wrap(err.Error())
		}
		addr := types.CasinoAddress(program, authority)
		data, err := a.st.Record(addr)
		if err != nil {
			return nil, errorsmod.Wrap(err, "casino config")
		}
		cfg, err := codec.DecodeCasinoConfig(data)
		if err != nil {
			return nil, err
		}
		return ConfigView{Address: addr, Balance: a.st.Balance(addr), Config: cfg}, nil

	case strings.HasPrefix(path, "/game/"):
		id, err := types.ParseHash(strings.TrimPrefix(path, "/game/"))
		if err != nil {
			return nil, ErrInvalidQuery.Wrap(err.Error())
		}
		addr := types.GameAddress(program, id)
		data, err := a.st.Record(addr)
		if err != nil {
			return nil, errorsmod.Wrap(err, "game")
		}
		g, err := codec.DecodeGameRecord(data)
		if err != nil {
			return nil, err
		}
		return GameView{Address: addr, Balance: a.st.Balance(addr), Game: g}, nil

	case strings.HasPrefix(path, "/address/casino/"):
		authority, err := types.ParseAddress(strings.TrimPrefix(path, "/address/casino/"))
		if err != nil {
			return nil, ErrInvalidQuery.Wrap(err.Error())
		}
		return map[string]types.Address{"address": types.CasinoAddress(program, authority)}, nil

	case strings.HasPrefix(path, "/address/game/"):
		id, err := types.ParseHash(strings.TrimPrefix(path, "/address/game/"))
		if err != nil {
			return nil, ErrInvalidQuery.Wrap(err.Error())
		}
		return map[string]types.Address{"address": types.GameAddress(program, id)}, nil

	default:
		return nil, ErrUnknownQuery.Wrap(path)
	}
}
