package judge

import (
	"context"
	"fmt"
	"log/slog"

	copilot "github.com/github/copilot-sdk/go"

	"rigor/internal/models"
)

// CopilotClient sends grading requests through the Copilot CLI. A fresh
// client and session are created per call so grading sessions never share
// conversational state.
type CopilotClient struct {
	Model string
}

// Complete implements [CompletionClient].
func (c *CopilotClient) Complete(ctx context.Context, system, user string) (string, error) {
	client := copilot.NewClient(&copilot.ClientOptions{
		AutoStart:       ptr(true),
		AutoRestart:     ptr(true),
		UseLoggedInUser: ptr(true),
		LogLevel:        "error",
	})

	defer func() {
		if err := client.Stop(); err != nil {
			slog.ErrorContext(ctx, "error stopping copilot client for judge")
		}
	}()

	session, err := client.CreateSession(ctx, &copilot.SessionConfig{
		Model:     c.Model,
		Streaming: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to start up copilot session for judging: %w", err)
	}

	session.On(sessionToSlog)

	resp, err := session.SendAndWait(ctx, copilot.MessageOptions{
		Prompt: system + "\n\n" + user,
		Mode:   "enqueue",
	})
	if err != nil {
		return "", fmt.Errorf("failed to send judge prompt: %w", err)
	}

	if resp.Data.Content == nil {
		return "", &models.JudgeProtocolError{Reason: "empty judge response"}
	}

	return *resp.Data.Content, nil
}

func sessionToSlog(event copilot.SessionEvent) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{
		"type", event.Type,
	}

	attrs = addIf(attrs, "content", event.Data.Content)
	attrs = addIf(attrs, "deltaContent", event.Data.DeltaContent)
	attrs = addIf(attrs, "toolName", event.Data.ToolName)
	attrs = addIf(attrs, "toolResult", event.Data.Result)
	attrs = addIf(attrs, "toolCallID", event.Data.ToolCallID)
	attrs = addIf(attrs, "reasoningText", event.Data.ReasoningText)

	slog.Debug("Event received", attrs...)
}

func addIf[T any](attrs []any, name string, v *T) []any {
	if v != nil {
		attrs = append(attrs, name)
		attrs = append(attrs, *v)
	}

	return attrs
}

func ptr[T any](v T) *T {
	return &v
}
