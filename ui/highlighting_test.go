package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestRenderStoryWrapsWithinWidth(t *testing.T) {
	words := strings.Fields("the quick brown fox jumps over the lazy dog near the riverbank")
	out := renderStory(words, -1, 20)

	for i, line := range strings.Split(out, "\n") {
		if w := runewidth.StringWidth(line); w > 20 {
			t.Errorf("line %d is %d cells wide: %q", i, w, line)
		}
	}
}

func TestRenderStoryPreservesWordOrder(t *testing.T) {
	words := []string{"uno", "dos", "tres"}
	out := renderStory(words, -1, 80)
	joined := strings.Join(strings.Fields(strings.ReplaceAll(out, "\n", " ")), " ")
	if joined != "uno dos tres" {
		t.Errorf("got %q", joined)
	}
}

func TestRenderStoryEmpty(t *testing.T) {
	if out := renderStory(nil, 0, 40); out != "" {
		t.Errorf("got %q, want empty", out)
	}
}

func TestRenderStoryHighlightKeepsAllWords(t *testing.T) {
	words := []string{"one", "two", "three"}
	out := renderStory(words, 1, 80)
	for _, w := range words {
		if !strings.Contains(out, w) {
			t.Errorf("output lost %q: %q", w, out)
		}
	}
}

func TestRenderStoryLongWordGetsOwnLine(t *testing.T) {
	words := []string{"hi", "incomprehensibilities", "yo"}
	out := renderStory(words, -1, 10)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Errorf("got %d lines, want 3: %q", len(lines), out)
	}
}
