package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fintrack-go/internal/config"
	"fintrack-go/pkg/logger"

	"github.com/spf13/cobra"
)

type cliState struct {
	cfg config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	rt := &cliState{}
	root := &cobra.Command{
		Use:           "fintrack",
		Short:         "Chat-driven personal finance assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			boot := logger.NewFromEnv()
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.LoadFile(boot, cfgFile)
			if err != nil {
				return err
			}
			if store, _ := cmd.Flags().GetString("store"); store != "" {
				cfg.Store = store
			}
			rt.cfg = cfg
			rt.log = logger.NewFromOptions(logger.Options{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Env:    cfg.Env,
			})
			return nil
		},
	}
	root.PersistentFlags().String("config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("store", "", "override the store backend (postgres, memory)")

	root.AddCommand(serveCmd(rt))
	root.AddCommand(migrateCmd(rt))
	root.AddCommand(chatCmd(rt))
	root.AddCommand(tokenCmd(rt))
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
