package gemini

import (
	"context"
	"strings"

	_ "embed"

	"jobscribe-backend/internal/ai"
)

//go:embed prompts/optimize.txt
var optimizePrompt string

const (
	optimizeTemperature     = 0.5
	optimizeMaxOutputTokens = 3500
)

// Optimize implements ai.Optimizer. The caller validates output quality; this
// method only strips formatting artifacts the model tends to add.
func (c *Client) Optimize(ctx context.Context, resumeText, jobDescription string, suggestions []string) (ai.Optimization, error) {
	prompt := strings.ReplaceAll(optimizePrompt, "{{RESUME}}", resumeText)
	prompt = strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION}}", jobDescription)
	prompt = strings.ReplaceAll(prompt, "{{SUGGESTIONS}}", "- "+strings.Join(suggestions, "\n- "))

	raw, err := c.generate(ctx, prompt, optimizeTemperature, optimizeMaxOutputTokens)
	if err != nil {
		return ai.Optimization{}, err
	}

	return ai.Optimization{
		OptimizedContent: cleanOptimized(raw),
		Success:          true,
	}, nil
}

func cleanOptimized(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.ReplaceAll(cleaned, "**", "")

	// Placeholder rows indicate fabricated entries; drop the lines outright.
	if strings.Contains(cleaned, "| null") || strings.Contains(cleaned, "| TBD") {
		lines := strings.Split(cleaned, "\n")
		kept := lines[:0]
		for _, line := range lines {
			if strings.Contains(line, "| null") || strings.Contains(line, "| TBD") {
				continue
			}
			kept = append(kept, line)
		}
		cleaned = strings.Join(kept, "\n")
	}

	return strings.TrimSpace(cleaned)
}
