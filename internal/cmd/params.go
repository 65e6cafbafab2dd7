package cmd

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/askiada/go-stepparams/pkg/pipeline"
	"github.com/askiada/go-stepparams/pkg/pipeline/drawer"
	"github.com/askiada/go-stepparams/pkg/pipeline/model"
)

var (
	ErrInvalidAssignment = errors.New("assignment must look like key=value")
	ErrTrailingInput     = errors.New("unexpected input after the JSON object")
)

func newGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the parameters of the current step as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := a.client().GetParams()
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), params)
		},
	}
}

func newUpdateCommand(a *app) *cobra.Command {
	var assignments []string

	cmd := &cobra.Command{
		Use:   "update [JSON object]",
		Short: "Merge parameters into the current step and print the result",
		Long: `Merge parameters into the current step. Keys given overwrite existing ones,
new keys are added and other keys are kept. Nested objects are replaced, not
merged. Values of --set are parsed as JSON and fall back to plain strings.`,
		Example: `  stepparams update '{"epochs": 10}'
  stepparams update --set epochs=10 --set model=resnet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseUpdate(args, assignments)
			if err != nil {
				return err
			}

			merged, err := a.client().UpdateParams(params)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), merged)
		},
	}

	cmd.Flags().StringArrayVar(&assignments, "set", nil, "key=value to set, may be repeated")

	return cmd
}

func newGraphCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the pipeline steps as a Graphviz DOT graph",
		Long: `Render the pipeline steps as a Graphviz DOT graph. When the current step
can be resolved it is highlighted together with its direct neighbours.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := a.client()

			p, err := client.Pipeline()
			if err != nil {
				return err
			}

			current := ""
			step, err := client.StepIn(p)
			switch {
			case err == nil:
				current = step.UUID()
			case errors.As(err, new(*pipeline.ParameterResolutionError)):
				a.logger.Debug("drawing without current step", slog.Any("error", err))
			default:
				return err
			}

			d, err := drawer.FromPipeline(p, current)
			if err != nil {
				return err
			}

			if output == "" {
				return d.Draw(cmd.OutOrStdout())
			}

			var buf bytes.Buffer
			err = d.Draw(&buf)
			if err != nil {
				return err
			}

			return errors.Wrapf(afero.WriteFile(a.fs, output, buf.Bytes(), 0o644), "unable to write %s", output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the graph to this file instead of stdout")

	return cmd
}

func parseUpdate(args, assignments []string) (model.Params, error) {
	params := model.Params{}

	if len(args) == 1 {
		dec := json.NewDecoder(strings.NewReader(args[0]))
		dec.UseNumber()

		err := dec.Decode(&params)
		if err != nil {
			return nil, errors.Wrap(err, "parameters must be a JSON object")
		}
		if dec.More() {
			return nil, ErrTrailingInput
		}
		if params == nil {
			params = model.Params{}
		}
	}

	for _, assignment := range assignments {
		key, raw, ok := strings.Cut(assignment, "=")
		if !ok || key == "" {
			return nil, errors.Wrapf(ErrInvalidAssignment, "got %q", assignment)
		}

		params[key] = parseValue(raw)
	}

	return params, nil
}

func parseValue(raw string) any {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}

	return v
}
