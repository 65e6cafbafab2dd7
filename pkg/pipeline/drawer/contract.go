package drawer

import (
	"io"

	"gopkg.in/go-playground/colors.v1" //nolint
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStep adds a step to the pipeline drawer.
	AddStep(uuid, label string) error
	// AddLink adds a link between parent and children steps.
	AddLink(parentUUID, childrenUUID string) error
	// Highlight fills the step with the given colour.
	Highlight(uuid string, colour colors.Color) error
	// Draw writes the pipeline graph to wrt.
	Draw(wrt io.Writer) error
}
