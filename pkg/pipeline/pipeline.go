package pipeline

import (
	"log/slog"

	"github.com/askiada/go-stepparams/internal/logging"
	"github.com/askiada/go-stepparams/pkg/pipeline/codec"
	"github.com/askiada/go-stepparams/pkg/pipeline/identity"
	"github.com/askiada/go-stepparams/pkg/pipeline/model"
)

const (
	opGet    = "get"
	opUpdate = "update"
)

// Client gives the code of a running step access to its parameters.
type Client struct {
	path     string
	ec       identity.ExecContext
	codec    *codec.Codec
	resolver identity.Resolver
	logger   *slog.Logger
}

// New creates a client for the pipeline document at path, acting on the step
// ec resolves to.
func New(path string, ec identity.ExecContext, opts ...Option) *Client {
	c := &Client{
		path:     path,
		ec:       ec,
		codec:    codec.New(nil),
		resolver: identity.Default,
		logger:   logging.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetParams returns the parameters of the current step. It never writes.
func (c *Client) GetParams() (model.Params, error) {
	_, step, err := c.currentStep(opGet)
	if err != nil {
		return nil, err
	}

	return step.Params(), nil
}

// UpdateParams merges params into the parameters of the current step and
// persists the whole pipeline. Existing keys are overwritten, new keys are
// added, other keys are left alone; nested mappings are replaced as a whole.
// It returns the merged parameters.
//
// The document is read, modified and rewritten without any locking, so a
// concurrent writer's changes made in between are lost.
func (c *Client) UpdateParams(params model.Params) (model.Params, error) {
	p, step, err := c.currentStep(opUpdate)
	if err != nil {
		return nil, err
	}

	merged := model.MergeParams(step.Params(), params)

	err = p.ReplaceStep(step.WithParams(merged))
	if err != nil {
		return nil, err
	}

	err = c.codec.Dump(p, c.path)
	if err != nil {
		return nil, err
	}

	c.logger.Info("updated step parameters",
		slog.String("path", c.path),
		slog.String("step_uuid", step.UUID()),
		slog.Int("updated_keys", len(params)),
	)

	return merged.Clone(), nil
}

// CurrentStep returns the step the client acts on.
func (c *Client) CurrentStep() (*model.Step, error) {
	_, step, err := c.currentStep(opGet)

	return step, err
}

// StepIn resolves the current step against an already loaded pipeline.
func (c *Client) StepIn(p *model.Pipeline) (*model.Step, error) {
	return c.resolveStep(opGet, p)
}

// Pipeline loads the pipeline document.
func (c *Client) Pipeline() (*model.Pipeline, error) {
	return c.codec.Load(c.path)
}

func (c *Client) currentStep(op string) (*model.Pipeline, *model.Step, error) {
	p, err := c.codec.Load(c.path)
	if err != nil {
		return nil, nil, err
	}

	c.logger.Debug("loaded pipeline", slog.String("path", c.path), slog.Int("steps", p.Len()))

	step, err := c.resolveStep(op, p)
	if err != nil {
		return nil, nil, err
	}

	return p, step, nil
}

func (c *Client) resolveStep(op string, p *model.Pipeline) (*model.Step, error) {
	uuid, err := c.resolver.Resolve(c.ec, p)
	if err != nil {
		c.logger.Debug("unable to resolve current step", slog.String("op", op), slog.Any("error", err))

		return nil, &ParameterResolutionError{Op: op, Err: err}
	}

	return p.StepByUUID(uuid)
}
