package pipeline

import (
	"log/slog"

	"github.com/spf13/afero"

	"github.com/askiada/go-stepparams/pkg/pipeline/codec"
	"github.com/askiada/go-stepparams/pkg/pipeline/identity"
)

type Option func(c *Client)

// WithFs sets the filesystem holding the pipeline document.
func WithFs(fs afero.Fs) Option {
	return func(c *Client) {
		c.codec = codec.New(fs)
	}
}

// WithResolver replaces identity.Default.
func WithResolver(resolver identity.Resolver) Option {
	return func(c *Client) {
		c.resolver = resolver
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}
