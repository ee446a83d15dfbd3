package cmd

import (
	"context"
	"fmt"

	"JerseyFM/server"

	"github.com/spf13/cobra"
)

var priceCmd = &cobra.Command{
	Use:   "price <file>...",
	Short: "查询暂存文件的存储费用",
	Long:  `向Irys节点查询上传指定暂存文件所需的费用，并与当前预付余额比较。`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		stack, err := server.Assemble(ctx, cfg)
		if err != nil {
			return err
		}

		var total uint64
		for _, name := range args {
			size, err := stack.Source.Stat(ctx, name)
			if err != nil {
				return err
			}
			quote, err := stack.Uploader.Quote(ctx, size)
			if err != nil {
				return fmt.Errorf("price %s: %w", name, err)
			}
			total += quote.CostAtomicUnits
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\t%s SOL\n", name, size, sol(quote.CostAtomicUnits))
		}

		balance, err := stack.Uploader.Balance(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "total\t%s SOL (balance %s SOL)\n", sol(total), sol(balance))
		return nil
	},
}

func sol(lamports uint64) string {
	return fmt.Sprintf("%d.%09d", lamports/1_000_000_000, lamports%1_000_000_000)
}

func init() {
	rootCmd.AddCommand(priceCmd)
}
