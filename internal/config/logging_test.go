package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLogWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := &Settings{
		Vault:        "/vault",
		PreviewStyle: "terminal",
		PreviewColor: "red",
		Flush:        "each",
		Versioning:   VersioningAuto,
	}
	LogWithLogger(s, logger)

	output := buf.String()
	if !strings.Contains(output, "/vault") {
		t.Error("Expected vault path in log output")
	}
	if strings.Contains(output, "exclude") {
		t.Error("Expected no 'exclude' in log output when none are set")
	}
	if strings.Contains(output, "read_only") {
		t.Error("Expected no 'read_only' in log output when disabled")
	}
}

func TestSettingsLogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("settings", "settings", SettingsLogValue(Settings{Vault: "/v", ReadOnly: true}))

	output := buf.String()
	if !strings.Contains(output, "settings.vault=/v") {
		t.Errorf("Expected grouped vault attribute, got %q", output)
	}
	if !strings.Contains(output, "settings.read_only=true") {
		t.Errorf("Expected grouped read_only attribute, got %q", output)
	}
}
