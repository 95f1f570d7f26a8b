package services_test

import (
	"errors"
	"strings"
	"testing"

	"hevcpress/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "encoding", "run ffmpeg", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"encoding", "run ffmpeg", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCauseOrMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestIsStartupFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"startup", services.Wrap(services.ErrStartup, "pipeline", "enumerate", "missing", nil), true},
		{"configuration", services.Wrap(services.ErrConfiguration, "config", "load", "bad", nil), true},
		{"relocation", services.Wrap(services.ErrRelocation, "verify", "move", "full", nil), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.IsStartupFailure(tt.err); got != tt.want {
				t.Fatalf("IsStartupFailure() = %v, want %v", got, tt.want)
			}
		})
	}
}
