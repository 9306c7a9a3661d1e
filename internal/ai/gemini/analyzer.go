package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	_ "embed"

	"jobscribe-backend/internal/ai"
	"jobscribe-backend/internal/shared/util"
)

//go:embed prompts/analyze.txt
var analyzePrompt string

const (
	// Provider input caps; anything beyond these adds cost without signal.
	maxResumeChars = 5000
	maxJobChars    = 2000

	analyzeTemperature = 0.3
)

// Analyze implements ai.Analyzer.
func (c *Client) Analyze(ctx context.Context, resumeText, jobDescription string) (ai.Analysis, error) {
	prompt := strings.ReplaceAll(analyzePrompt, "{{RESUME}}", util.Truncate(resumeText, maxResumeChars))
	prompt = strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION}}", util.Truncate(jobDescription, maxJobChars))

	raw, err := c.generate(ctx, prompt, analyzeTemperature, 0)
	if err != nil {
		return ai.Analysis{}, err
	}

	return parseAnalysis(raw)
}

func parseAnalysis(raw string) (ai.Analysis, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return ai.Analysis{}, fmt.Errorf("parse gemini analysis: %w", err)
	}

	return ai.Analysis{
		MatchScore:        coerceFloat(data["matchScore"]),
		Strengths:         coerceStrings(data["strengths"]),
		Suggestions:       coerceStrings(data["suggestions"]),
		MissingKeywords:   coerceStrings(data["missingKeywords"]),
		SectionsToImprove: coerceStrings(data["sectionsToImprove"]),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	// Models occasionally prepend prose; keep the outermost object.
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		raw = raw[start : end+1]
	}
	return raw
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceStrings(v any) []string {
	out := []string{}
	list, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range list {
		switch val := item.(type) {
		case string:
			if trimmed := strings.TrimSpace(val); trimmed != "" {
				out = append(out, trimmed)
			}
		case float64, bool:
			out = append(out, fmt.Sprintf("%v", val))
		}
	}
	return out
}
