package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"JerseyFM/storage"

	"github.com/spf13/cobra"
)

var minioPrefix string

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "查看MinIO暂存桶",
	Long:  `列出MinIO暂存桶中等待铸造的封面和音频文件，并显示数量和总大小。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("MinIO配置: %s, Bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		ctx := context.Background()
		src, err := storage.NewMinioSource(ctx, cfg)
		if err != nil {
			return fmt.Errorf("无法连接到MinIO: %w", err)
		}

		objects, err := src.List(ctx, minioPrefix)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tSIZE\tTYPE\tMODIFIED")
		var total int64
		for _, o := range objects {
			total += o.Size
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Key, storage.FormatSize(o.Size), o.ContentType, o.LastModified.Format("2006-01-02 15:04"))
		}
		tw.Flush()
		fmt.Printf("\n共 %d 个文件, 总大小 %s\n", len(objects), storage.FormatSize(total))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)
	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "按前缀过滤文件")
	minioCmd.Example = `  # 列出所有暂存文件
  jerseyfm minio

  # 按前缀过滤文件
  jerseyfm minio -p "covers/"`
}
