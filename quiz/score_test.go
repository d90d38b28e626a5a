package quiz

import "testing"

func questions3() []Question {
	return []Question{
		{Question: "q1", Options: []string{"a1", "b1"}, CorrectAnswer: "a1"},
		{Question: "q2", Options: []string{"a2", "b2"}, CorrectAnswer: "b2"},
		{Question: "q3", Options: []string{"a3", "b3"}, CorrectAnswer: "a3"},
	}
}

func TestGradeTwoOfThreeRoundsTo67(t *testing.T) {
	qs := questions3()
	answers := NewAnswerSet(len(qs))
	answers.Select(0, "a1")
	answers.Select(1, "b2")
	answers.Select(2, "b3")

	s := answers.Grade(qs)
	if s.Correct != 2 || s.Total != 3 {
		t.Fatalf("got %d/%d, want 2/3", s.Correct, s.Total)
	}
	if s.Percent != 67 {
		t.Errorf("Percent = %d, want 67", s.Percent)
	}
}

func TestGradeUnansweredCountsWrong(t *testing.T) {
	qs := questions3()
	answers := NewAnswerSet(len(qs))
	answers.Select(0, "a1")

	s := answers.Grade(qs)
	if s.Correct != 1 {
		t.Errorf("Correct = %d, want 1", s.Correct)
	}
	if answers.Answered(1) {
		t.Error("question 1 should be unanswered")
	}
}

func TestGradeEmptyQuiz(t *testing.T) {
	answers := NewAnswerSet(0)
	s := answers.Grade(nil)
	if s.Percent != 0 || s.Total != 0 || s.Correct != 0 {
		t.Errorf("got %+v, want zero score", s)
	}
}

func TestSelectOutOfRangeIgnored(t *testing.T) {
	answers := NewAnswerSet(2)
	answers.Select(-1, "x")
	answers.Select(5, "y")
	if answers.Answered(0) || answers.Answered(1) {
		t.Error("no answers should be recorded")
	}
}

func TestGradePerfectScore(t *testing.T) {
	qs := questions3()
	answers := NewAnswerSet(len(qs))
	answers.Select(0, "a1")
	answers.Select(1, "b2")
	answers.Select(2, "a3")
	if s := answers.Grade(qs); s.Percent != 100 {
		t.Errorf("Percent = %d, want 100", s.Percent)
	}
}
