package cmd

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"onchaincasino/internal/client"
	"onchaincasino/internal/codec"
	"onchaincasino/internal/types"
)

const (
	flagSeed  = "seed"
	flagNonce = "nonce"
)

// newTxCmd groups the transaction builders. Each prints a signed envelope
// ready for broadcast_tx_*.
func newTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Build and sign transactions",
	}
	cmd.PersistentFlags().String(flagSeed, "", "hex ed25519 seed of the signing identity")
	cmd.PersistentFlags().Uint64(flagNonce, 0, "envelope nonce; must exceed the signer's last accepted nonce")

	cmd.AddCommand(
		newInitializeCmd(),
		newPlaceBetCmd(),
		newSettleCmd(),
		newUpdateParamsCmd(),
		newOperatorCmd("add-operator", "Add a settlement operator", client.AddOperator),
		newOperatorCmd("remove-operator", "Remove a settlement operator", client.RemoveOperator),
		newSendCmd(),
		newMintCmd(),
	)
	return cmd
}

func signerFromFlags(cmd *cobra.Command) (*client.Signer, error) {
	raw, err := cmd.Flags().GetString(flagSeed)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, errors.New("--seed is required")
	}
	seed, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("--seed: %w", err)
	}
	nonce, err := cmd.Flags().GetUint64(flagNonce)
	if err != nil {
		return nil, err
	}
	if nonce == 0 {
		return nil, errors.New("--nonce is required")
	}
	return client.SignerFromSeed(seed, nonce)
}

func addressFlag(cmd *cobra.Command, name string) (types.Address, error) {
	raw, err := cmd.Flags().GetString(name)
	if err != nil {
		return types.Address{}, err
	}
	a, err := types.ParseAddress(raw)
	if err != nil {
		return types.Address{}, fmt.Errorf("--%s: %w", name, err)
	}
	return a, nil
}

func hashFlag(cmd *cobra.Command, name string) (types.Hash, error) {
	raw, err := cmd.Flags().GetString(name)
	if err != nil {
		return types.Hash{}, err
	}
	h, err := types.ParseHash(raw)
	if err != nil {
		return types.Hash{}, fmt.Errorf("--%s: %w", name, err)
	}
	return h, nil
}

// signAndPrint signs ix with the flag identity, which build receives.
func signAndPrint(cmd *cobra.Command, build func(signer types.Address) (client.Instruction, error)) error {
	s, err := signerFromFlags(cmd)
	if err != nil {
		return err
	}
	ix, err := build(s.Address())
	if err != nil {
		return err
	}
	env, err := s.SignInstruction(ix)
	if err != nil {
		return err
	}
	return printEnvelope(cmd, env)
}

// printEnvelope writes env compactly. Indenting would rewrite the signed value
// bytes.
func printEnvelope(cmd *cobra.Command, env codec.TxEnvelope) error {
	b, err := client.EncodeEnvelope(env)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}

func newInitializeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "initialize",
		Short: "Create the signer's casino configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			edge, _ := cmd.Flags().GetUint16("house-edge-bps")
			minBet, _ := cmd.Flags().GetUint64("min-bet")
			maxBet, _ := cmd.Flags().GetUint64("max-bet")
			return signAndPrint(cmd, func(signer types.Address) (client.Instruction, error) {
				return client.Initialize(types.ProgramID, signer, edge, minBet, maxBet), nil
			})
		},
	}
	cmd.Flags().Uint16("house-edge-bps", 250, "house edge in basis points (max 1000)")
	cmd.Flags().Uint64("min-bet", 100_000, "minimum bet")
	cmd.Flags().Uint64("max-bet", 1_000_000_000, "maximum bet")
	return cmd
}

func newPlaceBetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "place-bet",
		Short: "Open a wager as the signer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			authority, err := addressFlag(cmd, "authority")
			if err != nil {
				return err
			}
			gameID, err := hashFlag(cmd, "game-id")
			if err != nil {
				return err
			}
			amount, _ := cmd.Flags().GetUint64("amount")
			return signAndPrint(cmd, func(signer types.Address) (client.Instruction, error) {
				return client.PlaceBet(types.ProgramID, signer, authority, gameID, amount), nil
			})
		},
	}
	cmd.Flags().String("authority", "", "casino authority")
	cmd.Flags().String("game-id", "", "hex 32-byte wager id")
	cmd.Flags().Uint64("amount", 0, "stake")
	return cmd
}

func newSettleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Settle a wager as an operator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			authority, err := addressFlag(cmd, "authority")
			if err != nil {
				return err
			}
			player, err := addressFlag(cmd, "player")
			if err != nil {
				return err
			}
			gameID, err := hashFlag(cmd, "game-id")
			if err != nil {
				return err
			}
			resultHash, err := hashFlag(cmd, "result-hash")
			if err != nil {
				return err
			}
			win, _ := cmd.Flags().GetBool("win")
			winAmount, _ := cmd.Flags().GetUint64("win-amount")
			return signAndPrint(cmd, func(signer types.Address) (client.Instruction, error) {
				return client.SettleGame(types.ProgramID, signer, authority, gameID, player, win, winAmount, resultHash), nil
			})
		},
	}
	cmd.Flags().String("authority", "", "casino authority")
	cmd.Flags().String("player", "", "wager player")
	cmd.Flags().String("game-id", "", "hex 32-byte wager id")
	cmd.Flags().String("result-hash", "", "hex 32-byte outcome commitment")
	cmd.Flags().Bool("win", false, "the player won")
	cmd.Flags().Uint64("win-amount", 0, "payout; must be zero for a loss")
	return cmd
}

func newUpdateParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-params",
		Short: "Change the signer's casino parameters; unset flags stay unchanged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				edge           *uint16
				minBet, maxBet *uint64
			)
			if cmd.Flags().Changed("house-edge-bps") {
				v, _ := cmd.Flags().GetUint16("house-edge-bps")
				edge = &v
			}
			if cmd.Flags().Changed("min-bet") {
				v, _ := cmd.Flags().GetUint64("min-bet")
				minBet = &v
			}
			if cmd.Flags().Changed("max-bet") {
				v, _ := cmd.Flags().GetUint64("max-bet")
				maxBet = &v
			}
			return signAndPrint(cmd, func(signer types.Address) (client.Instruction, error) {
				return client.UpdateParams(types.ProgramID, signer, edge, minBet, maxBet), nil
			})
		},
	}
	cmd.Flags().Uint16("house-edge-bps", 0, "house edge in basis points (max 1000)")
	cmd.Flags().Uint64("min-bet", 0, "minimum bet")
	cmd.Flags().Uint64("max-bet", 0, "maximum bet")
	return cmd
}

func newOperatorCmd(use, short string, build func(program, authority, operator types.Address) client.Instruction) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			operator, err := addressFlag(cmd, "operator")
			if err != nil {
				return err
			}
			return signAndPrint(cmd, func(signer types.Address) (client.Instruction, error) {
				return build(types.ProgramID, signer, operator), nil
			})
		},
	}
	cmd.Flags().String("operator", "", "operator identity")
	return cmd
}

func newSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Transfer from the signer's balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			to, err := addressFlag(cmd, "to")
			if err != nil {
				return err
			}
			amount, _ := cmd.Flags().GetUint64("amount")
			s, err := signerFromFlags(cmd)
			if err != nil {
				return err
			}
			env, err := s.Sign(codec.TxTypeBankSend, codec.BankSendTx{From: s.Address(), To: to, Amount: amount})
			if err != nil {
				return err
			}
			return printEnvelope(cmd, env)
		},
	}
	cmd.Flags().String("to", "", "recipient")
	cmd.Flags().Uint64("amount", 0, "amount")
	return cmd
}

func newMintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Build an unsigned faucet mint (devnet nodes only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			to, err := addressFlag(cmd, "to")
			if err != nil {
				return err
			}
			amount, _ := cmd.Flags().GetUint64("amount")
			value, err := json.Marshal(codec.BankMintTx{To: to, Amount: amount})
			if err != nil {
				return err
			}
			return printEnvelope(cmd, codec.TxEnvelope{Type: codec.TxTypeBankMint, Value: value})
		},
	}
	cmd.Flags().String("to", "", "recipient")
	cmd.Flags().Uint64("amount", 0, "amount")
	return cmd
}
