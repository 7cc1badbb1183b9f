package platform

import (
	"log/slog"

	"github.com/nickrallison/obsidian-linker-new/pkg/core"
	"github.com/nickrallison/obsidian-linker-new/pkg/engine"
	"github.com/nickrallison/obsidian-linker-new/pkg/review"
)

// options holds the internal configuration for a linker.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	adapter    string
	engine     engine.Config
	config     map[string]interface{}
}

// Option defines a functional option for configuring the linker.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
		engine:  engine.DefaultConfig(),
		config:  make(map[string]interface{}),
	}
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a storage adapter (e.g. the in-memory one).
// If provided, the filesystem adapter is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name: "fs" (default) or "memory".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithCaseInsensitive toggles case-insensitive title matching. Default true.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *options) {
		o.engine.CaseInsensitive = enabled
	}
}

// WithLinkToSelf allows a document to link to itself. Default false.
func WithLinkToSelf(enabled bool) Option {
	return func(o *options) {
		o.engine.LinkToSelf = enabled
	}
}

// WithPreviewColor sets the colour of the proposed link in previews. Default "red".
func WithPreviewColor(color string) Option {
	return func(o *options) {
		o.engine.PreviewColor = color
	}
}

// WithPreviewStyle selects "terminal", "markdown" or "plain" previews.
func WithPreviewStyle(style string) Option {
	return func(o *options) {
		o.engine.PreviewStyle = style
	}
}

// WithLinkTemplate sets the link syntax, e.g. "[[{target}|{text}]]".
func WithLinkTemplate(tmpl string) Option {
	return func(o *options) {
		o.engine.LinkTemplate = tmpl
	}
}

// WithAliases toggles frontmatter aliases as extra titles. Default true.
func WithAliases(enabled bool) Option {
	return func(o *options) {
		o.engine.Aliases = enabled
	}
}

// WithFlush selects when accepted edits are written.
func WithFlush(policy review.FlushPolicy) Option {
	return func(o *options) {
		o.engine.Flush = policy
	}
}

// WithInclude replaces the include globs of the filesystem adapter.
func WithInclude(patterns ...string) Option {
	return func(o *options) {
		o.config["include"] = patterns
	}
}

// WithExclude sets globs the filesystem adapter never lists.
func WithExclude(patterns ...string) Option {
	return func(o *options) {
		o.config["exclude"] = patterns
	}
}

// WithVersioning enables or disables committing written documents to Git.
// When not set, versioning is on if the vault is a Git work tree.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["gitless"] = !enabled
	}
}

// WithReadOnly enables read-only mode: every write-back fails with core.ErrReadOnly,
// and nothing is committed. Reviews still compute the edited content.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithWatcherErrorHandler registers a callback for errors raised while watching.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
