package speech

import (
	"errors"
	"fmt"
	"testing"
)

func TestUserMessageDistinctPerError(t *testing.T) {
	errs := []error{
		ErrInterrupted,
		ErrPermissionDenied,
		ErrVoiceUnavailable,
		ErrSynthesisFailed,
		ErrNetwork,
		ErrDeviceBusy,
	}
	seen := map[string]error{}
	for _, err := range errs {
		msg := UserMessage(err)
		if msg == "" {
			t.Errorf("UserMessage(%v) is empty", err)
		}
		if prev, ok := seen[msg]; ok {
			t.Errorf("%v and %v share message %q", prev, err, msg)
		}
		seen[msg] = err
	}
}

func TestUserMessageUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("espeak: %w", ErrVoiceUnavailable)
	if UserMessage(wrapped) != UserMessage(ErrVoiceUnavailable) {
		t.Error("wrapped error mapped to a different message")
	}
}

func TestUserMessageDefaults(t *testing.T) {
	if got := UserMessage(errors.New("mystery")); got != "Speech is unavailable right now." {
		t.Errorf("got %q", got)
	}
	if got := UserMessage(nil); got != "" {
		t.Errorf("UserMessage(nil) = %q, want empty", got)
	}
}

func TestIsInterruption(t *testing.T) {
	if !IsInterruption(fmt.Errorf("driver: %w", ErrInterrupted)) {
		t.Error("wrapped interruption not detected")
	}
	if IsInterruption(ErrDeviceBusy) {
		t.Error("device busy misclassified as interruption")
	}
	if IsInterruption(nil) {
		t.Error("nil misclassified as interruption")
	}
}
