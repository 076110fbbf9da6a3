package main

import (
	"fmt"
	"time"

	authmw "fintrack-go/internal/transport/httpserver/middleware"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func tokenCmd(rt *cliState) *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := uuid.Parse(userID); err != nil {
				return fmt.Errorf("--user must be a uuid: %w", err)
			}
			token, err := authmw.IssueToken(rt.cfg.Auth.JWTSecret, userID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
