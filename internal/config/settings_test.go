package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vaultWith(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	if yaml != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yaml), 0644))
	}
	t.Setenv("LINKER_VAULT", dir)
	return dir
}

func TestLoadSettings_Defaults(t *testing.T) {
	dir := vaultWith(t, "")

	settings, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, dir, settings.Vault)
	assert.True(t, settings.CaseInsensitive)
	assert.False(t, settings.LinkToSelf)
	assert.Equal(t, "red", settings.PreviewColor)
	assert.Equal(t, "terminal", settings.PreviewStyle)
	assert.Equal(t, "[[{target}|{text}]]", settings.LinkTemplate)
	assert.True(t, settings.Aliases)
	assert.Equal(t, []string{"**/*.md"}, settings.Include)
	assert.Empty(t, settings.Exclude)
	assert.Equal(t, "each", settings.Flush)
	assert.Equal(t, VersioningAuto, settings.Versioning)
	assert.Empty(t, settings.ConfigFile)
	require.NoError(t, ValidateSettings(settings))
}

func TestLoadSettings_ConfigFile(t *testing.T) {
	dir := vaultWith(t, "case_insensitive: false\npreview_color: blue\nexclude:\n  - templates/**\nflush: batch\n")

	settings, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, FileName), settings.ConfigFile)
	assert.False(t, settings.CaseInsensitive)
	assert.Equal(t, "blue", settings.PreviewColor)
	assert.Equal(t, []string{"templates/**"}, settings.Exclude)
	assert.Equal(t, "batch", settings.Flush)
}

func TestLoadSettings_EnvOverridesFile(t *testing.T) {
	vaultWith(t, "preview_color: blue\n")
	t.Setenv("LINKER_PREVIEW_COLOR", "green")
	t.Setenv("LINKER_LINK_TO_SELF", "true")
	t.Setenv("LINKER_EXCLUDE", "drafts/**, templates/**")

	settings, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "green", settings.PreviewColor)
	assert.True(t, settings.LinkToSelf)
	assert.Equal(t, []string{"drafts/**", "templates/**"}, settings.Exclude)
}

func TestLoadSettings_FlagsOverrideEnv(t *testing.T) {
	vaultWith(t, "")
	t.Setenv("LINKER_PREVIEW_COLOR", "green")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("preview-color", "red", "")
	flags.Bool("read-only", false, "")
	require.NoError(t, flags.Parse([]string{"--preview-color=cyan", "--read-only"}))

	settings, err := LoadSettingsWithFlags(flags)
	require.NoError(t, err)
	assert.Equal(t, "cyan", settings.PreviewColor)
	assert.True(t, settings.ReadOnly)
}

func TestLoadSettings_MalformedFile(t *testing.T) {
	vaultWith(t, "preview_color: [unclosed\n")
	_, err := LoadSettings()
	assert.Error(t, err)
}

func TestValidateSettings(t *testing.T) {
	valid := func() *Settings {
		return &Settings{
			PreviewColor: "red",
			PreviewStyle: "terminal",
			LinkTemplate: "[[{target}|{text}]]",
			Include:      []string{"**/*.md"},
			Flush:        "each",
			Versioning:   VersioningAuto,
		}
	}
	require.NoError(t, ValidateSettings(valid()))

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"preview style", func(s *Settings) { s.PreviewStyle = "neon" }},
		{"flush", func(s *Settings) { s.Flush = "sometimes" }},
		{"versioning", func(s *Settings) { s.Versioning = "maybe" }},
		{"template", func(s *Settings) { s.LinkTemplate = "[[{target}]]" }},
		{"color", func(s *Settings) { s.PreviewColor = " " }},
		{"include", func(s *Settings) { s.Include = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			assert.Error(t, ValidateSettings(s))
		})
	}
}

func TestSettings_Options(t *testing.T) {
	s := &Settings{Flush: "batch", Versioning: VersioningOff, Include: []string{"**/*.md"}}
	assert.Len(t, s.Options(), 11)

	s.Versioning = VersioningAuto
	assert.Len(t, s.Options(), 10)
}
