package quiz

import "testing"

func TestStripLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"A) London", "London"},
		{"b. Paris", "Paris"},
		{"C: Berlin", "Berlin"},
		{"d- Madrid", "Madrid"},
		{"London", "London"},
		{"Dogs bark", "Dogs bark"},
		{"  A) spaced  ", "spaced"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripLabel(tt.in); got != tt.want {
			t.Errorf("StripLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeLetterAnswer(t *testing.T) {
	q := Question{
		Question:      "What is the capital of the UK?",
		Options:       []string{"A) Paris", "B) London", "C) Berlin", "D) Madrid"},
		CorrectAnswer: "B",
	}
	got := Normalize(q, nil)
	if got.CorrectAnswer != "London" {
		t.Errorf("CorrectAnswer = %q, want %q", got.CorrectAnswer, "London")
	}
	for i, opt := range got.Options {
		want := []string{"Paris", "London", "Berlin", "Madrid"}[i]
		if opt != want {
			t.Errorf("Options[%d] = %q, want %q", i, opt, want)
		}
	}
}

func TestNormalizeWordStartingWithLetterIsNotALetterAnswer(t *testing.T) {
	q := Question{
		Question:      "Which animal barks?",
		Options:       []string{"Cat", "Dog", "Bird"},
		CorrectAnswer: "dog",
	}
	got := Normalize(q, nil)
	if got.CorrectAnswer != "Dog" {
		t.Errorf("CorrectAnswer = %q, want %q", got.CorrectAnswer, "Dog")
	}
}

func TestNormalizeExplicitIndexWins(t *testing.T) {
	idx := 2
	q := Question{
		Question:      "Pick one",
		Options:       []string{"one", "two", "three"},
		CorrectAnswer: "one",
	}
	got := Normalize(q, &idx)
	if got.CorrectAnswer != "three" {
		t.Errorf("CorrectAnswer = %q, want %q", got.CorrectAnswer, "three")
	}
}

func TestNormalizeOutOfRangeIndexIgnored(t *testing.T) {
	idx := 9
	q := Question{
		Options:       []string{"one", "two"},
		CorrectAnswer: "two",
	}
	got := Normalize(q, &idx)
	if got.CorrectAnswer != "two" {
		t.Errorf("CorrectAnswer = %q, want %q", got.CorrectAnswer, "two")
	}
}

func TestNormalizeSubstringMatch(t *testing.T) {
	q := Question{
		Options:       []string{"The red house", "The blue house"},
		CorrectAnswer: "blue",
	}
	got := Normalize(q, nil)
	if got.CorrectAnswer != "The blue house" {
		t.Errorf("CorrectAnswer = %q, want %q", got.CorrectAnswer, "The blue house")
	}
}

func TestNormalizeFallsBackToFirstOption(t *testing.T) {
	q := Question{
		Options:       []string{"alpha", "beta"},
		CorrectAnswer: "gamma",
	}
	got := Normalize(q, nil)
	if got.CorrectAnswer != "alpha" {
		t.Errorf("CorrectAnswer = %q, want %q", got.CorrectAnswer, "alpha")
	}
}

func TestNormalizeEmptyOptions(t *testing.T) {
	q := Question{Question: "?", CorrectAnswer: "anything"}
	got := Normalize(q, nil)
	if got.CorrectAnswer != "" {
		t.Errorf("CorrectAnswer = %q, want empty", got.CorrectAnswer)
	}
	if len(got.Options) != 0 {
		t.Errorf("Options = %v, want none", got.Options)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	q := Question{
		Question:      "What is the capital of the UK?",
		Options:       []string{"a: Paris", "b: London"},
		CorrectAnswer: "b",
	}
	once := Normalize(q, nil)
	twice := Normalize(once, nil)
	if twice.CorrectAnswer != once.CorrectAnswer {
		t.Errorf("second pass changed answer: %q -> %q", once.CorrectAnswer, twice.CorrectAnswer)
	}
	for i := range once.Options {
		if twice.Options[i] != once.Options[i] {
			t.Errorf("second pass changed option %d: %q -> %q", i, once.Options[i], twice.Options[i])
		}
	}
}
