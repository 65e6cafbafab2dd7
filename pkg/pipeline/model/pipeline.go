package model

import (
	"encoding/json"
	"sort"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-stepparams/internal/store"
)

const (
	stepsField = "steps"
	nameField  = "name"
)

// Pipeline is a pipeline description. Steps are indexed by UUID and linked
// parent -> child following their incoming connections.
//
// A Pipeline must be built with FromDocument (or decoded with encoding/json);
// the zero value is not usable.
type Pipeline struct {
	store  store.CustomStore[string, *Step]
	graph  graph.Graph[string, *Step]
	fields map[string]json.RawMessage
}

func stepHash(s *Step) string {
	return s.uuid
}

func newPipeline(fields map[string]json.RawMessage) *Pipeline {
	st := store.NewMemoryStore[string, *Step]()

	return &Pipeline{
		store:  st,
		graph:  graph.NewWithStore[string, *Step](stepHash, st, graph.Directed()),
		fields: fields,
	}
}

// FromDocument builds a Pipeline from the raw JSON of a pipeline description.
func FromDocument(data []byte) (*Pipeline, error) {
	p := &Pipeline{}
	if err := p.UnmarshalJSON(data); err != nil {
		return nil, err
	}

	return p, nil
}

// ToDocument encodes the pipeline back to JSON, including every field the
// model does not interpret.
func (p *Pipeline) ToDocument() ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Pipeline) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return errors.Wrapf(ErrInvalidDocument, "%v", err)
	}
	if fields == nil {
		return ErrInvalidDocument
	}

	rawSteps, ok := fields[stepsField]
	if !ok || isNull(rawSteps) {
		return ErrMissingSteps
	}

	var rawStepMap map[string]json.RawMessage
	if err := json.Unmarshal(rawSteps, &rawStepMap); err != nil {
		return errors.Wrapf(ErrInvalidDocument, "steps: %v", err)
	}
	delete(fields, stepsField)

	uuids := make([]string, 0, len(rawStepMap))
	for uuid := range rawStepMap {
		uuids = append(uuids, uuid)
	}
	sort.Strings(uuids)

	np := newPipeline(fields)
	for _, uuid := range uuids {
		step, err := decodeStep(uuid, rawStepMap[uuid])
		if err != nil {
			return err
		}
		if err := np.graph.AddVertex(step); err != nil {
			return errors.Wrapf(err, "unable to add step %s", uuid)
		}
	}

	err := np.link(uuids)
	if err != nil {
		return err
	}

	*p = *np

	return nil
}

// link adds an edge from every known parent to its child. Connections to
// steps outside the pipeline are not an error here.
func (p *Pipeline) link(uuids []string) error {
	for _, uuid := range uuids {
		step, err := p.graph.Vertex(uuid)
		if err != nil {
			return errors.Wrapf(err, "unable to get step %s", uuid)
		}

		for _, parent := range step.IncomingConnections() {
			if parent == uuid {
				continue
			}
			if _, err := p.graph.Vertex(parent); err != nil {
				continue
			}

			err := p.graph.AddEdge(parent, uuid)
			if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return errors.Wrapf(err, "unable to link step %s to %s", parent, uuid)
			}
		}
	}

	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *Pipeline) MarshalJSON() ([]byte, error) {
	steps, err := p.Steps()
	if err != nil {
		return nil, err
	}

	stepMap := make(map[string]*Step, len(steps))
	for _, step := range steps {
		stepMap[step.uuid] = step
	}

	out := make(map[string]any, len(p.fields)+1)
	for k, v := range p.fields {
		out[k] = v
	}
	out[stepsField] = stepMap

	return json.Marshal(out)
}

// Name returns the pipeline name, if the document has one.
func (p *Pipeline) Name() string {
	var name string
	if raw, ok := p.fields[nameField]; ok {
		_ = json.Unmarshal(raw, &name)
	}

	return name
}

// Len returns the number of steps.
func (p *Pipeline) Len() int {
	n, _ := p.store.VertexCount()

	return n
}

// Steps returns the steps ordered by UUID.
func (p *Pipeline) Steps() ([]*Step, error) {
	uuids, err := p.store.ListVertices()
	if err != nil {
		return nil, errors.Wrap(err, "unable to list steps")
	}

	steps := make([]*Step, 0, len(uuids))
	for _, uuid := range uuids {
		step, err := p.StepByUUID(uuid)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	return steps, nil
}

// StepByUUID returns the step identified by uuid.
func (p *Pipeline) StepByUUID(uuid string) (*Step, error) {
	step, err := p.graph.Vertex(uuid)
	if errors.Is(err, graph.ErrVertexNotFound) {
		return nil, &StepNotFoundError{UUID: uuid}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to get step %s", uuid)
	}

	return step, nil
}

// ReplaceStep swaps the step sharing the UUID of step for step itself.
func (p *Pipeline) ReplaceStep(step *Step) error {
	if step == nil {
		return errors.New("step must be set")
	}

	err := p.store.ReplaceVertex(step.uuid, step)
	if errors.Is(err, graph.ErrVertexNotFound) {
		return &StepNotFoundError{UUID: step.uuid}
	}

	return errors.Wrapf(err, "unable to replace step %s", step.uuid)
}

// Parents returns the steps feeding into the step identified by uuid.
func (p *Pipeline) Parents(uuid string) ([]*Step, error) {
	if _, err := p.StepByUUID(uuid); err != nil {
		return nil, err
	}

	predecessors, err := p.graph.PredecessorMap()
	if err != nil {
		return nil, errors.Wrap(err, "unable to get predecessors")
	}

	return p.ordered(predecessors[uuid])
}

// Children returns the steps the step identified by uuid feeds into.
func (p *Pipeline) Children(uuid string) ([]*Step, error) {
	if _, err := p.StepByUUID(uuid); err != nil {
		return nil, err
	}

	adjacency, err := p.graph.AdjacencyMap()
	if err != nil {
		return nil, errors.Wrap(err, "unable to get adjacency map")
	}

	return p.ordered(adjacency[uuid])
}

func (p *Pipeline) ordered(edges map[string]graph.Edge[string]) ([]*Step, error) {
	steps, err := p.Steps()
	if err != nil {
		return nil, err
	}

	res := make([]*Step, 0, len(edges))
	for _, step := range steps {
		if _, ok := edges[step.uuid]; ok {
			res = append(res, step)
		}
	}

	return res, nil
}
