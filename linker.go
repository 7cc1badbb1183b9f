package linker

import (
	"log/slog"

	"github.com/nickrallison/obsidian-linker-new/internal/platform"
	"github.com/nickrallison/obsidian-linker-new/pkg/core"
	"github.com/nickrallison/obsidian-linker-new/pkg/engine"
	"github.com/nickrallison/obsidian-linker-new/pkg/review"
)

// Version is the release of the library and CLI. Overridden at build time with
// -ldflags "-X github.com/nickrallison/obsidian-linker-new.Version=...".
var Version = "0.1.0"

// --- Types ---

// Engine runs linking passes over a vault.
type Engine = engine.Engine

// Plan is the result of scanning a snapshot.
type Plan = engine.Plan

// Candidate is a detected occurrence of a title.
type Candidate = core.Candidate

// Decision is the reviewer's verdict on a candidate.
type Decision = core.Decision

// Decisions.
const (
	Accepted = core.Accepted
	Declined = core.Declined
)

// Proposal is what a reviewer is shown for one candidate.
type Proposal = review.Proposal

// Decider produces decisions for proposals.
type Decider = review.Decider

// DeciderFunc adapts a function to a Decider.
type DeciderFunc = review.DeciderFunc

// Report summarises a review.
type Report = review.Report

// FlushPolicy selects when accepted edits are written.
type FlushPolicy = review.FlushPolicy

// Flush policies.
const (
	FlushEachAccept = review.FlushEachAccept
	FlushBatch      = review.FlushBatch
)

// --- Configuration ---

// Option defines a functional option for configuring the linker.
type Option = platform.Option

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository injects a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithCaseInsensitive toggles case-insensitive matching.
func WithCaseInsensitive(enabled bool) Option {
	return platform.WithCaseInsensitive(enabled)
}

// WithLinkToSelf allows self links.
func WithLinkToSelf(enabled bool) Option {
	return platform.WithLinkToSelf(enabled)
}

// WithPreviewColor sets the preview colour.
func WithPreviewColor(color string) Option {
	return platform.WithPreviewColor(color)
}

// WithPreviewStyle selects "terminal", "markdown" or "plain" previews.
func WithPreviewStyle(style string) Option {
	return platform.WithPreviewStyle(style)
}

// WithLinkTemplate sets the link syntax.
func WithLinkTemplate(tmpl string) Option {
	return platform.WithLinkTemplate(tmpl)
}

// WithAliases toggles frontmatter aliases.
func WithAliases(enabled bool) Option {
	return platform.WithAliases(enabled)
}

// WithFlush selects when accepted edits are written.
func WithFlush(policy FlushPolicy) Option {
	return platform.WithFlush(policy)
}

// WithInclude sets the include globs of the filesystem adapter.
func WithInclude(patterns ...string) Option {
	return platform.WithInclude(patterns...)
}

// WithExclude sets the exclude globs of the filesystem adapter.
func WithExclude(patterns ...string) Option {
	return platform.WithExclude(patterns...)
}

// WithVersioning enables or disables Git commits of written documents.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithReadOnly makes every write-back fail with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// --- Factory ---

// New creates an Engine over the vault at path.
func New(path string, opts ...Option) (*Engine, error) {
	return platform.New(path, opts...)
}

// FindRoot looks upwards from dir for a vault root.
func FindRoot(dir string) (string, error) {
	return platform.FindRoot(dir)
}
