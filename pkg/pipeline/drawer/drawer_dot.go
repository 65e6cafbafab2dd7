package drawer

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint
)

// DOTDrawer renders the steps of a pipeline as a Graphviz digraph.
type DOTDrawer struct {
	graph graph.Graph[string, string]
	title string
}

// NewDOTDrawer creates a new DOT drawer. title labels the whole graph when set.
func NewDOTDrawer(title string) *DOTDrawer {
	return &DOTDrawer{
		graph: graph.New(graph.StringHash, graph.Directed()),
		title: title,
	}
}

// AddStep adds a step to the pipeline graph.
func (d *DOTDrawer) AddStep(uuid, label string) error {
	if label == "" {
		label = uuid
	}

	err := d.graph.AddVertex(uuid, graph.VertexAttribute("label", escape(label)))
	if err != nil {
		return errors.Wrapf(err, "unable to add step %s", uuid)
	}

	return nil
}

// AddLink adds a link between parent and children steps.
func (d *DOTDrawer) AddLink(parentUUID, childrenUUID string) error {
	err := d.graph.AddEdge(parentUUID, childrenUUID)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentUUID, childrenUUID)
	}

	return nil
}

// Highlight fills the step with the given colour.
func (d *DOTDrawer) Highlight(uuid string, colour colors.Color) error {
	_, properties, err := d.graph.VertexWithProperties(uuid)
	if err != nil {
		return errors.Wrapf(err, "unable to get properties of step %s", uuid)
	}

	properties.Attributes["style"] = "filled"
	properties.Attributes["fillcolor"] = colour.ToHEX().String()

	return nil
}

// Draw writes the graph in DOT format.
func (d *DOTDrawer) Draw(wrt io.Writer) error {
	var options []func(*description)
	if d.title != "" {
		options = append(options, GraphAttribute("label", escape(d.title)))
	}

	err := dot(d.graph, wrt, options...)
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// escape makes s safe inside a double-quoted DOT ID.
func escape(s string) string {
	return escaper.Replace(s)
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
{{- range $k, $v := .Attributes}}
	{{$k}}="{{$v}}";
{{- end}}
{{- range $s := .Statements}}
	"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}}weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}}weight={{.SourceWeight}} ]{{end}};
{{- end}}
}
`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot(g graph.Graph[string, string], wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(g, options...)
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

// GraphAttribute is a functional option for the [dot] function.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

// generateDOT lists vertices and their edges sorted by hash so the output is
// stable between runs.
func generateDOT(gra graph.Graph[string, string], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for _, vertex := range sortedKeys(adjacencyMap) {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           escape(vertex),
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceProperties.Attributes,
		})

		adjacencies := adjacencyMap[vertex]
		for _, adjacency := range sortedKeys(adjacencies) {
			edge := adjacencies[adjacency]
			desc.Statements = append(desc.Statements, statement{
				Source:         escape(vertex),
				Target:         escape(adjacency),
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
