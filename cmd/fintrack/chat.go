package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"fintrack-go/internal/app"
	"fintrack-go/internal/assistant"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func chatCmd(rt *cliState) *cobra.Command {
	var (
		channel string
		userID  string
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant from the terminal",
		Long: `Reads one message per line from stdin and prints the assistant's reply.
An unpaired channel is linked to --user (a fresh id when empty) first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			application, err := app.New(ctx, rt.cfg, rt.log)
			if err != nil {
				return err
			}
			defer application.Close()

			if err := ensureLinked(ctx, application, channel, userID); err != nil {
				return err
			}
			return repl(ctx, application.Assistant(), channel, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&channel, "channel", "cli:local", "channel identity to chat as")
	cmd.Flags().StringVar(&userID, "user", "", "user to pair an unlinked channel with")
	return cmd
}

func ensureLinked(ctx context.Context, application *app.App, channel, userID string) error {
	identity := application.Services().Identity
	if _, linked, err := identity.ResolveUser(ctx, channel); err != nil || linked {
		return err
	}
	if userID == "" {
		userID = uuid.NewString()
	}
	code, err := identity.IssueCode(ctx, userID)
	if err != nil {
		return fmt.Errorf("issue activation code: %w", err)
	}
	if _, err := identity.Link(ctx, channel, code.Code); err != nil {
		return fmt.Errorf("link %s: %w", channel, err)
	}
	return nil
}

func repl(ctx context.Context, a *assistant.Handler, channel string, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			fmt.Fprint(out, "> ")
			continue
		}
		if text == "/quit" || text == "/exit" {
			return nil
		}

		reply := a.Handle(ctx, assistant.Message{
			ID:              uuid.NewString(),
			ChannelIdentity: channel,
			Text:            text,
			ReceivedAt:      time.Now().UTC(),
		})
		fmt.Fprintln(out, reply.Message)
		if reply.Example != "" {
			fmt.Fprintln(out, reply.Example)
		}
		for _, s := range reply.Suggestions {
			fmt.Fprintln(out, "  -", s)
		}
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}
