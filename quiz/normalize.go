// Package quiz turns loosely formatted comprehension questions from the
// content service into something the UI can grade deterministically.
package quiz

import (
	"regexp"
	"strings"
)

// Question is a multiple-choice question ready for presentation. Options
// carry no leading labels and CorrectAnswer always equals one of them
// verbatim, so grading is a plain string comparison.
type Question struct {
	Question      string
	Options       []string
	CorrectAnswer string
}

var labelRe = regexp.MustCompile(`^[A-Da-d][).:\-]\s*`)

// StripLabel removes a leading choice label like "A)", "b.", "C:" or "d-"
// from an option. Text that merely starts with one of those letters, such
// as "Dogs bark", is left alone because the punctuation is required.
func StripLabel(option string) string {
	return labelRe.ReplaceAllString(strings.TrimSpace(option), "")
}

// letterIndex reports which option a bare letter answer refers to.
// Only "B", "b", or a letter followed by punctuation counts; a word that
// happens to start with A-D is not a letter answer.
func letterIndex(answer string) (int, bool) {
	s := strings.TrimSpace(answer)
	if len(s) == 0 {
		return 0, false
	}
	c := s[0]
	switch {
	case c >= 'A' && c <= 'D':
		c += 'a' - 'A'
	case c >= 'a' && c <= 'd':
	default:
		return 0, false
	}
	if len(s) > 1 {
		rest := s[1:]
		if !strings.HasPrefix(rest, ")") && !strings.HasPrefix(rest, ".") &&
			!strings.HasPrefix(rest, ":") && !strings.HasPrefix(rest, "-") {
			return 0, false
		}
	}
	return int(c - 'a'), true
}

// Normalize rewrites a raw question so that every option is label-free and
// the correct answer matches exactly one option's text. The answer is
// resolved in priority order: an explicit index from the service, a bare
// letter answer, an exact case-insensitive match, then a substring match.
// When nothing matches, the first option is assumed correct, which keeps a
// malformed question gradeable instead of unanswerable. Normalizing an
// already-normalized question is a no-op.
func Normalize(q Question, answerIndex *int) Question {
	out := Question{
		Question: strings.TrimSpace(q.Question),
		Options:  make([]string, len(q.Options)),
	}
	for i, opt := range q.Options {
		out.Options[i] = StripLabel(opt)
	}

	answer := strings.TrimSpace(q.CorrectAnswer)

	if answerIndex != nil && *answerIndex >= 0 && *answerIndex < len(out.Options) {
		out.CorrectAnswer = out.Options[*answerIndex]
		return out
	}

	if idx, ok := letterIndex(answer); ok && idx < len(out.Options) {
		out.CorrectAnswer = out.Options[idx]
		return out
	}

	stripped := StripLabel(answer)
	for _, opt := range out.Options {
		if strings.EqualFold(opt, stripped) {
			out.CorrectAnswer = opt
			return out
		}
	}
	if stripped != "" {
		lower := strings.ToLower(stripped)
		for _, opt := range out.Options {
			if strings.Contains(strings.ToLower(opt), lower) {
				out.CorrectAnswer = opt
				return out
			}
		}
	}

	if len(out.Options) > 0 {
		out.CorrectAnswer = out.Options[0]
	}
	return out
}
