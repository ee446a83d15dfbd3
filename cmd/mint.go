package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"JerseyFM/core/pipeline"
	"JerseyFM/model"
	"JerseyFM/server"

	"github.com/spf13/cobra"
)

var mintReq model.MintRequest

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "铸造一首已暂存的曲目",
	Long:  `上传暂存的封面和音频到Irys，然后铸造压缩NFT。与 POST /api/mint 走同一条流水线。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		stack, err := server.Assemble(ctx, cfg)
		if err != nil {
			return err
		}

		res, err := stack.Pipeline.Execute(ctx, &mintReq, func(s pipeline.State) {
			fmt.Fprintf(cmd.ErrOrStderr(), "→ %s\n", s)
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"status":       "success",
			"assetId":      res.Outcome.AssetID,
			"signature":    res.Outcome.Signature,
			"explorerLink": res.Outcome.ExplorerLink,
			"coverUrl":     res.Assets.CoverURL,
			"audioUrl":     res.Assets.AudioURL,
		})
	},
}

func init() {
	rootCmd.AddCommand(mintCmd)

	f := mintCmd.Flags()
	f.StringVar(&mintReq.CoverFileName, "cover", "", "暂存的封面文件名")
	f.StringVar(&mintReq.AudioFileName, "audio", "", "暂存的音频文件名")
	f.StringVar(&mintReq.OwnerAddress, "owner", "", "接收NFT的Solana地址")
	f.StringVar(&mintReq.SongTitle, "title", "", "歌曲名")
	f.StringVar(&mintReq.ArtistName, "artist", "", "艺术家")
	f.StringVar(&mintReq.Genre, "genre", "", "流派 (默认 Jersey Club)")

	mintCmd.Example = `  jerseyfm mint --cover cover-1.png --audio audio-1.wav \
    --owner 7xKX...9fQ --title "Track" --artist "DJ X"`
}
