package drawer

import (
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-stepparams/pkg/pipeline/model"
)

const maxRGB = 240

// FromPipeline builds a drawer holding every step of p. When currentUUID is
// set, that step is filled red, the steps feeding it blue and the steps it
// feeds green.
func FromPipeline(p *model.Pipeline, currentUUID string) (*DOTDrawer, error) {
	d := NewDOTDrawer(p.Name())

	steps, err := p.Steps()
	if err != nil {
		return nil, errors.Wrap(err, "unable to list steps")
	}

	for _, step := range steps {
		err := d.AddStep(step.UUID(), step.Title())
		if err != nil {
			return nil, err
		}
	}

	for _, step := range steps {
		children, err := p.Children(step.UUID())
		if err != nil {
			return nil, errors.Wrapf(err, "unable to get children of %s", step.UUID())
		}

		for _, child := range children {
			err := d.AddLink(step.UUID(), child.UUID())
			if err != nil {
				return nil, err
			}
		}
	}

	if currentUUID == "" {
		return d, nil
	}

	err = highlightAround(d, p, currentUUID)
	if err != nil {
		return nil, err
	}

	return d, nil
}

func highlightAround(d *DOTDrawer, p *model.Pipeline, currentUUID string) error {
	red, err := colors.RGB(255, 0, 0) //nolint
	if err != nil {
		return errors.Wrap(err, "unable to get colour")
	}

	blue, err := colors.RGB(0, 0, maxRGB)
	if err != nil {
		return errors.Wrap(err, "unable to get colour")
	}

	green, err := colors.RGB(0, maxRGB, 0)
	if err != nil {
		return errors.Wrap(err, "unable to get colour")
	}

	parents, err := p.Parents(currentUUID)
	if err != nil {
		return err
	}

	for _, parent := range parents {
		err := d.Highlight(parent.UUID(), blue)
		if err != nil {
			return err
		}
	}

	children, err := p.Children(currentUUID)
	if err != nil {
		return err
	}

	for _, child := range children {
		err := d.Highlight(child.UUID(), green)
		if err != nil {
			return err
		}
	}

	return d.Highlight(currentUUID, red)
}
