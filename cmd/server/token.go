package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sumire/jobboard/internal/config"
	"github.com/sumire/jobboard/internal/domain"
	"github.com/sumire/jobboard/internal/service"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token for local testing",
	Long:  "Sign an access token with JWT_SECRET. Use --admin for the moderation endpoints.",
	RunE:  runToken,
}

var (
	tokenUserID int64
	tokenAdmin  bool
	tokenTTL    time.Duration
)

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user", 0, "User id to issue the token for (required)")
	tokenCmd.Flags().BoolVar(&tokenAdmin, "admin", false, "Grant the admin role")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "Token lifetime")

	if err := tokenCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	if tokenUserID <= 0 {
		return fmt.Errorf("--user must be a positive id")
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	role := domain.RoleUser
	if tokenAdmin {
		role = domain.RoleAdmin
	}
	token, err := service.NewAuthService(cfg.JWTSecret).IssueToken(tokenUserID, role, tokenTTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
