package content

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testRequest() Request {
	return Request{
		Level:           "beginner",
		Topic:           "animals",
		Language:        "en",
		WordCount:       100,
		QuestionCount:   3,
		VocabularyCount: 5,
	}
}

func testResponse() Response {
	return Response{
		Title: "The Cat",
		Story: "The cat sat on the mat.",
		Quiz: []QuizItem{
			{
				Question:      "Where did the cat sit?",
				Options:       []string{"A) The mat", "B) The chair"},
				CorrectAnswer: "A",
			},
		},
		Vocabulary: []VocabItem{{Word: "mat", Definition: "a floor covering"}},
	}
}

func testClient(url string) *Client {
	cfg := DefaultClientConfig()
	cfg.BaseURL = url
	cfg.MaxRetries = 2
	cfg.RetryDelay = 10 * time.Millisecond
	return NewClient(cfg, nil)
}

func TestGenerateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Topic != "animals" {
			t.Errorf("topic = %q", req.Topic)
		}
		json.NewEncoder(w).Encode(testResponse())
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL).Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.StoryOf().WordCount() != 6 {
		t.Errorf("WordCount = %d, want 6", resp.StoryOf().WordCount())
	}
	qs := resp.Questions()
	if len(qs) != 1 || qs[0].CorrectAnswer != "The mat" {
		t.Errorf("Questions = %+v", qs)
	}
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(testResponse())
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).Generate(context.Background(), testRequest()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestGenerateDoesNotRetryRejections(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "topic too long"})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), testRequest())
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestGenerateEmptyStoryRetried(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		json.NewEncoder(w).Encode(Response{Story: "   "})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), testRequest())
	if !errors.Is(err, ErrEmptyStory) {
		t.Fatalf("err = %v, want ErrEmptyStory", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestGenerateValidatesRequest(t *testing.T) {
	req := testRequest()
	req.Level = "expert"
	if _, err := testClient("http://127.0.0.1:0").Generate(context.Background(), req); err == nil {
		t.Fatal("expected validation error")
	}

	req = testRequest()
	req.Topic = "  "
	if _, err := testClient("http://127.0.0.1:0").Generate(context.Background(), req); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestGenerateContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server notices the client going away;
		// otherwise the handler parks forever and Close hangs.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := testClient(srv.URL).Generate(ctx, testRequest()); err == nil {
		t.Fatal("expected cancellation error")
	}
}
