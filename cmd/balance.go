package cmd

import (
	"context"
	"fmt"

	"JerseyFM/server"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "查看运营钱包在Irys节点的预付余额",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		stack, err := server.Assemble(ctx, cfg)
		if err != nil {
			return err
		}
		balance, err := stack.Uploader.Balance(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "operator %s\nnode     %s\nbalance  %s SOL (%d lamports)\n",
			stack.Wallet.Address(), cfg.IrysNodeURL, sol(balance), balance)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
