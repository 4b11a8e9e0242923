package llm

import (
	"context"
	"fmt"
	"strings"
)

// Client abstracts text-generation providers for research summaries and
// letter composition.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OfflineClient produces deterministic text without any provider. It is
// the default in dev and tests so the workflow stays runnable offline.
type OfflineClient struct{}

// Complete returns a short deterministic rendering of the prompt.
func (OfflineClient) Complete(ctx context.Context, system, user string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	subject := firstLine(user)
	if subject == "" {
		subject = "the request"
	}
	return fmt.Sprintf("[offline] %s", subject), nil
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
