package letters

import (
	"context"
	"fmt"
	"strings"

	"letterdesk/internal/llm"
)

// ComposeInput carries everything a Writer needs to draft letter text.
type ComposeInput struct {
	PrincipalText      string
	GranteeText        string
	Circumstances      string
	RecommendationType string
	Directives         string
}

// Writer drafts the letter body text.
type Writer interface {
	Compose(ctx context.Context, in ComposeInput) (string, error)
}

const composeSystemPrompt = "You write formal recommendation letters. The principal is the person " +
	"writing the letter; the grantee is the person being recommended. Write in the principal's voice, " +
	"grounded only in the two resumes and the stated circumstances. Return plain text paragraphs."

// LLMWriter composes letters through a text-generation client.
type LLMWriter struct {
	Client llm.Client
}

// Compose builds the prompt from both resumes and the request details.
func (w *LLMWriter) Compose(ctx context.Context, in ComposeInput) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Recommendation type: %s\n", in.RecommendationType)
	if in.Circumstances != "" {
		fmt.Fprintf(&sb, "Circumstances: %s\n", in.Circumstances)
	}
	if in.Directives != "" {
		fmt.Fprintf(&sb, "Directives: %s\n", in.Directives)
	}
	fmt.Fprintf(&sb, "\nPrincipal resume:\n%s\n", in.PrincipalText)
	fmt.Fprintf(&sb, "\nGrantee resume:\n%s\n", in.GranteeText)

	text, err := w.Client.Complete(ctx, composeSystemPrompt, sb.String())
	if err != nil {
		return "", fmt.Errorf("compose letter: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("compose letter: empty completion")
	}
	return text, nil
}
