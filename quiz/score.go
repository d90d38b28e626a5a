package quiz

import "math"

// AnswerSet records the user's selections for a quiz. A missing answer is
// the empty string, so a partially answered quiz can still be scored.
type AnswerSet struct {
	answers []string
}

// NewAnswerSet creates an answer set for n questions, all unanswered.
func NewAnswerSet(n int) *AnswerSet {
	return &AnswerSet{answers: make([]string, n)}
}

// Select records the chosen option text for a question. Out-of-range
// indexes are ignored.
func (a *AnswerSet) Select(question int, option string) {
	if question < 0 || question >= len(a.answers) {
		return
	}
	a.answers[question] = option
}

// Answer returns the recorded selection for a question, "" if none.
func (a *AnswerSet) Answer(question int) string {
	if question < 0 || question >= len(a.answers) {
		return ""
	}
	return a.answers[question]
}

// Answered reports whether the question has a recorded selection.
func (a *AnswerSet) Answered(question int) bool {
	return a.Answer(question) != ""
}

// Len returns the number of questions covered by the set.
func (a *AnswerSet) Len() int { return len(a.answers) }

// Score is the graded outcome of a quiz.
type Score struct {
	Correct int
	Total   int
	Percent int
}

// Grade compares the recorded answers against the normalized questions.
// The percentage is rounded to the nearest integer, so 2 of 3 is 67.
func (a *AnswerSet) Grade(questions []Question) Score {
	s := Score{Total: len(questions)}
	for i, q := range questions {
		if i < len(a.answers) && a.answers[i] == q.CorrectAnswer && q.CorrectAnswer != "" {
			s.Correct++
		}
	}
	if s.Total > 0 {
		s.Percent = int(math.Round(float64(s.Correct) * 100 / float64(s.Total)))
	}
	return s
}
