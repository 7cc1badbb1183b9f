// Package config loads linker settings from defaults, the vault's .linker.yaml,
// LINKER_* environment variables and CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nickrallison/obsidian-linker-new/internal/platform"
	"github.com/nickrallison/obsidian-linker-new/pkg/engine"
	"github.com/nickrallison/obsidian-linker-new/pkg/review"
	"github.com/nickrallison/obsidian-linker-new/pkg/rewrite"
)

// FileName is the settings file looked up in the vault root.
const FileName = ".linker.yaml"

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "LINKER"

// Versioning modes.
const (
	VersioningAuto = "auto"
	VersioningOn   = "on"
	VersioningOff  = "off"
)

// Settings application settings
type Settings struct {
	Vault           string   `mapstructure:"vault"`
	CaseInsensitive bool     `mapstructure:"case_insensitive"`
	LinkToSelf      bool     `mapstructure:"link_to_self"`
	PreviewColor    string   `mapstructure:"preview_color"`
	PreviewStyle    string   `mapstructure:"preview_style"`
	LinkTemplate    string   `mapstructure:"link_template"`
	Aliases         bool     `mapstructure:"aliases"`
	Include         []string `mapstructure:"include"`
	Exclude         []string `mapstructure:"exclude"`
	Flush           string   `mapstructure:"flush"`
	Versioning      string   `mapstructure:"versioning"`
	ReadOnly        bool     `mapstructure:"read_only"`

	// ConfigFile is the settings file that was read, if any.
	ConfigFile string `mapstructure:"-"`
}

// flagKeys maps settings keys to CLI flag names.
var flagKeys = map[string]string{
	"vault":            "vault",
	"case_insensitive": "case-insensitive",
	"link_to_self":     "link-to-self",
	"preview_color":    "preview-color",
	"preview_style":    "preview-style",
	"link_template":    "link-template",
	"aliases":          "aliases",
	"include":          "include",
	"exclude":          "exclude",
	"flush":            "flush",
	"versioning":       "versioning",
	"read_only":        "read-only",
}

// LoadSettings loads settings from environment variables, the vault settings file and defaults.
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .linker.yaml > defaults.
// The vault defaults to the nearest directory above the working directory holding
// .linker.yaml, .obsidian or .git, and to the working directory otherwise.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	def := engine.DefaultConfig()
	v.SetDefault("vault", "")
	v.SetDefault("case_insensitive", def.CaseInsensitive)
	v.SetDefault("link_to_self", def.LinkToSelf)
	v.SetDefault("preview_color", def.PreviewColor)
	v.SetDefault("preview_style", def.PreviewStyle)
	v.SetDefault("link_template", def.LinkTemplate)
	v.SetDefault("aliases", def.Aliases)
	v.SetDefault("include", []string{"**/*.md"})
	v.SetDefault("exclude", []string{})
	v.SetDefault("flush", def.Flush.String())
	v.SetDefault("versioning", VersioningAuto)
	v.SetDefault("read_only", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key := range flagKeys {
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key))
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}

	vault := v.GetString("vault")
	if vault == "" {
		vault = "."
		if root, err := platform.FindRoot("."); err == nil {
			vault = root
		}
	}

	configFile := filepath.Join(vault, FileName)
	if _, err := os.Stat(configFile); err == nil {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
		}
	} else {
		configFile = ""
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}
	settings.Vault = vault
	settings.ConfigFile = configFile

	// Lists from env arrive as one comma-separated string.
	settings.Include = splitList(settings.Include)
	settings.Exclude = splitList(settings.Exclude)

	return &settings, nil
}

func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ValidateSettings rejects unknown enum values and unusable templates.
func ValidateSettings(s *Settings) error {
	switch s.PreviewStyle {
	case engine.PreviewTerminal, engine.PreviewMarkdown, engine.PreviewPlain:
	default:
		return errors.New("preview-style must be 'terminal', 'markdown' or 'plain', got: " + s.PreviewStyle)
	}

	if _, err := review.ParseFlushPolicy(s.Flush); err != nil {
		return err
	}

	switch s.Versioning {
	case VersioningAuto, VersioningOn, VersioningOff:
	default:
		return errors.New("versioning must be 'auto', 'on' or 'off', got: " + s.Versioning)
	}

	if err := rewrite.Template(s.LinkTemplate).Validate(); err != nil {
		return err
	}

	if strings.TrimSpace(s.PreviewColor) == "" {
		return errors.New("preview-color cannot be empty")
	}

	if len(s.Include) == 0 {
		return errors.New("include needs at least one pattern")
	}
	return nil
}

// Options converts validated settings into platform options.
func (s *Settings) Options() []platform.Option {
	flush, _ := review.ParseFlushPolicy(s.Flush)
	opts := []platform.Option{
		platform.WithCaseInsensitive(s.CaseInsensitive),
		platform.WithLinkToSelf(s.LinkToSelf),
		platform.WithPreviewColor(s.PreviewColor),
		platform.WithPreviewStyle(s.PreviewStyle),
		platform.WithLinkTemplate(s.LinkTemplate),
		platform.WithAliases(s.Aliases),
		platform.WithFlush(flush),
		platform.WithInclude(s.Include...),
		platform.WithExclude(s.Exclude...),
		platform.WithReadOnly(s.ReadOnly),
	}
	switch s.Versioning {
	case VersioningOn:
		opts = append(opts, platform.WithVersioning(true))
	case VersioningOff:
		opts = append(opts, platform.WithVersioning(false))
	}
	return opts
}
