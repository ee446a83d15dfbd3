package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"JerseyFM/core/dropfolder"
	"JerseyFM/server"

	"github.com/spf13/cobra"
)

var watchDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "监听目录并铸造其中的 *.mint.json 清单",
	Long: `监听目录中新建的 <name>.mint.json 铸造清单 (MintRequest JSON)，
逐个运行铸造流水线，并把结果写到 <name>.result.json。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		stack, err := server.Assemble(ctx, cfg)
		if err != nil {
			return err
		}
		return dropfolder.New(watchDir, stack.Pipeline).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchDir, "dir", "d", "drop", "要监听的目录")
}
