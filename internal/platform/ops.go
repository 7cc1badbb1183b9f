package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nickrallison/obsidian-linker-new/pkg/adapters/fs"
	"github.com/nickrallison/obsidian-linker-new/pkg/adapters/memory"
	"github.com/nickrallison/obsidian-linker-new/pkg/core"
	"github.com/nickrallison/obsidian-linker-new/pkg/git"
)

// Init returns the repository selected by the options.
// The 'uri' argument is adapter-specific (a vault path for 'fs', ignored for 'memory').
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initRepository(uri, o)
}

func initRepository(uri string, o *options) (core.Repository, error) {
	if o.repository != nil {
		return o.repository, nil
	}

	switch o.adapter {
	case "fs":
		return initFS(uri, o)
	case "memory":
		readOnly, _ := o.config["read_only"].(bool)
		return memory.New(nil, memory.WithReadOnly(readOnly)), nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// initFS handles the initialization logic for the filesystem adapter.
func initFS(path string, o *options) (core.Repository, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault path: %w", err)
	}

	include, _ := o.config["include"].([]string)
	exclude, _ := o.config["exclude"].([]string)
	readOnly, _ := o.config["read_only"].(bool)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	// Versioning follows the vault unless configured: a .git directory means commits.
	gitless, explicit := o.config["gitless"].(bool)
	if !explicit {
		_, statErr := os.Stat(filepath.Join(abs, ".git"))
		gitless = statErr != nil || !git.IsInstalled()
		if gitless && o.logger != nil {
			o.logger.Debug("auto-detected gitless mode", "path", abs)
		}
	}

	repo := fs.NewRepository(fs.Config{
		Path:         abs,
		Include:      include,
		Exclude:      exclude,
		Gitless:      gitless,
		ReadOnly:     readOnly,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	})
	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	if o.logger != nil && readOnly {
		o.logger.Debug("running in READ-ONLY mode", "path", abs)
	}
	return repo, nil
}
