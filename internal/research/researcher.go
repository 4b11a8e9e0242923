package research

import (
	"context"
	"fmt"
	"strings"

	"letterdesk/internal/entities"
	"letterdesk/internal/llm"
)

// Researcher produces a summary per selected entity.
type Researcher interface {
	Research(ctx context.Context, ents []entities.Entity) (map[string]string, error)
}

const researchSystemPrompt = "You research background facts for a recommendation letter. " +
	"Given one entity from a resume, reply with a two-sentence factual summary of what it is."

// LLMResearcher summarizes entities through a text-generation client.
type LLMResearcher struct {
	Client llm.Client
}

// Research asks the client for a summary of each entity. The first
// failure aborts the run; partial results are never returned.
func (r *LLMResearcher) Research(ctx context.Context, ents []entities.Entity) (map[string]string, error) {
	out := make(map[string]string, len(ents))
	for _, ent := range ents {
		prompt := fmt.Sprintf("Entity: %s\nCategory: %s", ent.Text, ent.Label)
		summary, err := r.Client.Complete(ctx, researchSystemPrompt, prompt)
		if err != nil {
			return nil, fmt.Errorf("research entity %q: %w", ent.Text, err)
		}
		out[ent.Text] = strings.TrimSpace(summary)
	}
	return out, nil
}
