package cmd

import (
	"JerseyFM/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动JerseyFM服务器",
	Long:  `启动铸造服务的HTTP服务器: POST /api/mint, /api/mint/ws 进度推送, /api/mints 铸造记录, /metrics 指标。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
