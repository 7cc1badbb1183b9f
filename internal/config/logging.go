package config

import (
	"context"
	"log/slog"
)

// Log logs the resolved settings in a granular way, skipping irrelevant ones
func Log(s *Settings) {
	LogWithLogger(s, slog.Default())
}

// LogWithLogger logs the resolved settings using the provided logger
func LogWithLogger(s *Settings, logger *slog.Logger) {
	ctx := context.Background()
	logger.DebugContext(ctx, "Config: vault", "value", s.Vault)
	if s.ConfigFile != "" {
		logger.DebugContext(ctx, "Config: file", "value", s.ConfigFile)
	}
	logger.DebugContext(ctx, "Config: case_insensitive", "value", s.CaseInsensitive)
	logger.DebugContext(ctx, "Config: link_to_self", "value", s.LinkToSelf)
	logger.DebugContext(ctx, "Config: aliases", "value", s.Aliases)
	logger.DebugContext(ctx, "Config: link_template", "value", s.LinkTemplate)
	logger.DebugContext(ctx, "Config: preview", "style", s.PreviewStyle, "color", s.PreviewColor)
	logger.DebugContext(ctx, "Config: include", "value", s.Include)
	if len(s.Exclude) > 0 {
		logger.DebugContext(ctx, "Config: exclude", "value", s.Exclude)
	}
	logger.DebugContext(ctx, "Config: flush", "value", s.Flush)
	logger.DebugContext(ctx, "Config: versioning", "value", s.Versioning)
	if s.ReadOnly {
		logger.DebugContext(ctx, "Config: read_only", "value", true)
	}
}

// SettingsLogValue returns a slog.Value for Settings
func SettingsLogValue(s Settings) slog.Value {
	return slog.GroupValue(
		slog.String("vault", s.Vault),
		slog.Bool("case_insensitive", s.CaseInsensitive),
		slog.Bool("link_to_self", s.LinkToSelf),
		slog.Bool("aliases", s.Aliases),
		slog.String("preview_style", s.PreviewStyle),
		slog.String("preview_color", s.PreviewColor),
		slog.String("flush", s.Flush),
		slog.String("versioning", s.Versioning),
		slog.Bool("read_only", s.ReadOnly),
	)
}
