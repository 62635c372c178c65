package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"mindguard/internal/safety"
	"mindguard/pkg"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const appName = "MindGuard AI"

// quickFeelings are shortcuts that send a canned message
var quickFeelings = map[string]string{
	"/happy":    "I am feeling happy today.",
	"/sad":      "I am feeling sad.",
	"/angry":    "I am feeling angry.",
	"/stressed": "I am feeling stressed about my life and studies.",
}

const chatHelp = `Commands:
  /happy /sad /angry /stressed   send a quick feeling
  /moods                         show your mood summary
  /clear                         forget this conversation
  /exit                          leave the chat`

func newChatCommand(configPath *string) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk with MindGuard in the terminal",
		Long:  "Start an interactive chat session, or send a single message with --message.",
		Example: strings.Join([]string{
			"  mindguard chat",
			"  mindguard chat --message \"I am worried about my exams\"",
		}, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			conv := &pkg.Conversation{}

			if strings.TrimSpace(message) != "" {
				_, err := a.handleLine(ctx, conv, message, out)
				return err
			}
			return a.interactive(ctx, conv, out)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Send one message and exit")
	return cmd
}

func (a *app) interactive(ctx context.Context, conv *pkg.Conversation, out io.Writer) error {
	fmt.Fprintf(out, "%s is here to listen. Type /help for commands.\n\n", appName)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "You: ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("error initializing readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				fmt.Fprintln(out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("error reading input: %w", err)
		}

		exit, err := a.handleLine(ctx, conv, line, out)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		if exit {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}
	}
}

// handleLine processes one line of input and reports whether the session should end
func (a *app) handleLine(ctx context.Context, conv *pkg.Conversation, line string, out io.Writer) (bool, error) {
	input := strings.TrimSpace(line)
	if input == "" {
		return false, nil
	}

	switch input {
	case "/exit", "/quit", "exit", "quit":
		return true, nil
	case "/help":
		fmt.Fprintln(out, chatHelp)
		return false, nil
	case "/clear":
		conv.Reset()
		fmt.Fprintln(out, "Conversation cleared.")
		return false, nil
	case "/moods":
		moods, err := a.pipeline.LoadMoods(ctx)
		if err != nil {
			return false, err
		}
		printMoods(out, moods)
		return false, nil
	}

	if canned, ok := quickFeelings[strings.ToLower(input)]; ok {
		input = canned
		fmt.Fprintf(out, "You: %s\n", input)
	}

	result, err := a.pipeline.HandleMessage(ctx, conv, input)
	if err != nil {
		return false, err
	}

	if result.Distress {
		fmt.Fprintf(out, "\n%s: %s\n\n", appName, safety.Message)
		return false, nil
	}
	fmt.Fprintf(out, "\n%s (%s): %s\n\n", appName, result.Emotion, result.Reply)
	return false, nil
}
