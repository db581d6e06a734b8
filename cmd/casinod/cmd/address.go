package cmd

import (
	"github.com/spf13/cobra"

	"onchaincasino/internal/types"
)

func newAddressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Print derived record addresses",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "casino <authority>",
			Short: "Configuration record address for an authority",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				authority, err := types.ParseAddress(args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]types.Address{
					"address": types.CasinoAddress(types.ProgramID, authority),
				})
			},
		},
		&cobra.Command{
			Use:   "game <game-id>",
			Short: "Game record address for a wager id",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := types.ParseHash(args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]types.Address{
					"address": types.GameAddress(types.ProgramID, id),
				})
			},
		},
	)
	return cmd
}
