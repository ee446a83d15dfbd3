package cmd

import (
	"fmt"
	"time"

	"JerseyFM/server"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "签发访问铸造接口的JWT",
	RunE: func(cmd *cobra.Command, args []string) error {
		auth := server.NewAuthenticator(cfg.JWTSecret)
		if !auth.Enabled() {
			return fmt.Errorf("JWT_SECRET is not set")
		}
		now := time.Now()
		token, err := auth.IssueToken(jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   tokenSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVarP(&tokenSubject, "subject", "s", "frontend", "令牌主体")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "有效期")
}
