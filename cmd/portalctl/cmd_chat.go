package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/investor-portal/internal/bootstrap"
	"github.com/GregMSThompson/investor-portal/internal/dto"
	"github.com/GregMSThompson/investor-portal/internal/models"
)

var (
	chatSession string
	chatContext string
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Talk to the dashboard assistant",
	Long: `Sends one message when given arguments. Without arguments it reads
messages line by line from stdin until EOF or "exit".

Example:
  portalctl chat "show me market trends"
  portalctl chat --context documents "where is my K-1"`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, closeFn, err := boot(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	out := cmd.OutOrStdout()
	if len(args) > 0 {
		return sendChat(ctx, app, out, strings.Join(args, " "))
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
		case "exit", "quit":
			return nil
		default:
			if err := sendChat(ctx, app, out, line); err != nil {
				fmt.Fprintln(out, "error:", err)
			}
		}
		fmt.Fprint(out, "> ")
	}
	fmt.Fprintln(out)
	return scanner.Err()
}

func sendChat(ctx context.Context, app *bootstrap.App, out io.Writer, msg string) error {
	resp, err := app.Deps.ChatSvc.Send(ctx, uid, dto.ChatRequest{
		SessionID: chatSession,
		Message:   msg,
		Context:   models.ChatContext(chatContext),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, resp.Reply)
	if resp.Badge != models.BadgeNone {
		fmt.Fprintf(out, "[%s]\n", resp.Badge)
	}
	if resp.Action != nil {
		printWidgets(out, resp.Widgets)
	}
	return nil
}
