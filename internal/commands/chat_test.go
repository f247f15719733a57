package commands

import (
	"errors"
	"testing"
	"time"

	"github.com/diogo/faqchat/internal/config"
)

func TestChatCmd_PassesOptionsToTUI(t *testing.T) {
	env := newTestEnv(t)

	cfg := config.DefaultConfig()
	cfg.TypingDelayMs = 0
	cfg.CopyToClipboard = true
	if err := config.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	if err := env.run("chat"); err != nil {
		t.Fatalf("run() error: %v", err)
	}

	if env.tui.calls != 1 {
		t.Fatalf("RunChat called %d times, want 1", env.tui.calls)
	}
	if env.tui.client != env.client {
		t.Error("TUI should receive the created client")
	}
	if env.tui.opts.TypingDelay != time.Duration(0) {
		t.Errorf("TypingDelay = %v, want 0", env.tui.opts.TypingDelay)
	}
	if !env.tui.opts.CopyToClipboard {
		t.Error("CopyToClipboard should follow the config")
	}
	if env.tui.opts.Context == nil {
		t.Error("TUI should receive the command context")
	}
	if !env.client.Closed() {
		t.Error("client should be closed when the chat ends")
	}
}

func TestChatCmd_PropagatesTUIError(t *testing.T) {
	env := newTestEnv(t)
	env.tui.err = errors.New("no tty")

	if err := env.run("chat"); err == nil || err.Error() != "no tty" {
		t.Errorf("expected TUI error, got %v", err)
	}
}

func TestChatCmd_RejectsArgs(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("chat", "extra"); err == nil {
		t.Error("expected error for positional args")
	}
	if env.tui.calls != 0 {
		t.Error("TUI must not start on bad args")
	}
}

func TestResetCmd(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("reset"); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if env.client.ResetCalls() != 1 {
		t.Errorf("ResetCalls = %d, want 1", env.client.ResetCalls())
	}
	if !env.client.Closed() {
		t.Error("client should be closed after reset")
	}
}

func TestResetCmd_Failure(t *testing.T) {
	env := newTestEnv(t)
	env.client.ResetErr = errors.New("refused")

	err := env.run("reset")
	if err == nil || !errors.Is(err, env.client.ResetErr) {
		t.Errorf("expected wrapped reset error, got %v", err)
	}
}
