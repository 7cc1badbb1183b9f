package platform

import (
	"github.com/nickrallison/obsidian-linker-new/pkg/core"
	"github.com/nickrallison/obsidian-linker-new/pkg/engine"
)

// New builds an engine over the vault at uri.
//
//	eng, err := linker.New("./vault", linker.WithCaseInsensitive(false))
func New(uri string, opts ...Option) (*engine.Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if err := o.engine.Validate(); err != nil {
		return nil, err
	}

	repo, err := initRepository(uri, o)
	if err != nil {
		return nil, err
	}

	service := core.NewService(repo, o.logger)
	return engine.New(service, o.engine, o.logger), nil
}
