package resumes

import (
	"math"
	"strings"
	"unicode"
)

// Score repair for loosely typed provider output. An out-of-range or
// non-numeric match score is replaced by a deterministic keyword-overlap
// heuristic instead of persisting garbage.

const (
	scoreFloor = 25
	scoreCeil  = 85
)

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "your": {}, "all": {}, "any": {}, "can": {}, "will": {},
	"with": {}, "have": {}, "has": {}, "had": {}, "this": {},
	"that": {}, "these": {}, "those": {}, "from": {}, "they": {}, "their": {},
	"our": {}, "who": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"about": {}, "into": {}, "over": {}, "under": {}, "more": {}, "most": {},
	"other": {}, "some": {}, "such": {}, "than": {}, "too": {}, "very": {},
	"was": {}, "were": {}, "been": {}, "being": {}, "both": {}, "each": {},
	"per": {}, "via": {}, "etc": {}, "should": {}, "would": {}, "could": {},
	"must": {}, "may": {}, "also": {}, "able": {}, "well": {}, "years": {},
	"year": {}, "plus": {}, "strong": {}, "including": {}, "required": {},
	"preferred": {}, "experience": {}, "work": {}, "working": {}, "team": {},
	"role": {}, "join": {}, "looking": {}, "candidate": {},
}

// repairScore returns raw rounded to an int when it is a sane 0-100 value,
// and the keyword-overlap fallback otherwise.
func repairScore(raw float64, resumeText, jobDescription string) int {
	if !math.IsNaN(raw) && !math.IsInf(raw, 0) && raw >= 0 && raw <= 100 {
		return int(math.Round(raw))
	}
	return keywordOverlapScore(resumeText, jobDescription)
}

// keywordOverlapScore scores by the fraction of distinct job-description
// keywords that literally appear in the resume, scaled into a realistic band.
func keywordOverlapScore(resumeText, jobDescription string) int {
	keywords := keywordSet(jobDescription)
	if len(keywords) == 0 {
		return scoreFloor
	}

	haystack := strings.ToLower(resumeText)
	matched := 0
	for kw := range keywords {
		if strings.Contains(haystack, kw) {
			matched++
		}
	}

	frac := float64(matched) / float64(len(keywords))
	return scoreFloor + int(math.Round(frac*float64(scoreCeil-scoreFloor)))
}

// keywordSet extracts distinct lowercase alphabetic tokens of length >= 3,
// minus stopwords.
func keywordSet(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range tokenize(text) {
		if len(tok) < 3 {
			continue
		}
		if _, skip := stopwords[tok]; skip {
			continue
		}
		out[tok] = struct{}{}
	}
	return out
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
