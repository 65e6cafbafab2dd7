package cmd_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-stepparams/internal/cmd"
	"github.com/askiada/go-stepparams/pkg/pipeline"
	"github.com/askiada/go-stepparams/pkg/pipeline/codec"
)

const documentPath = "/pipeline-dir/pipeline.json"

const document = `{
	"name": "cli",
	"steps": {
		"a1": {"uuid": "a1", "title": "A", "file_path": "a.py", "parameters": {"x": 1}},
		"b2": {"uuid": "b2", "title": "B", "incoming_connections": ["a1"], "parameters": {"y": 2}}
	}
}`

func run(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()

	root := cmd.NewRootCommand(fs)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--pipeline-path", documentPath}, args...))

	err := root.Execute()

	return out.String(), err
}

func newFs(t *testing.T) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, documentPath, []byte(document), 0o644))

	return fs
}

func TestGet(t *testing.T) {
	t.Parallel()

	out, err := run(t, newFs(t), "get", "--step-uuid", "a1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": 1}`, out)
}

func TestGetByFilePath(t *testing.T) {
	t.Parallel()

	out, err := run(t, newFs(t), "get", "--step-file-path", "a.py")
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": 1}`, out)
}

func TestGetWithoutStep(t *testing.T) {
	t.Parallel()

	_, err := run(t, newFs(t), "get")

	var resolutionErr *pipeline.ParameterResolutionError
	require.ErrorAs(t, err, &resolutionErr)
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	fs := newFs(t)

	out, err := run(t, fs, "update", "--step-uuid", "a1", `{"x": 10}`, "--set", "z=3", "--set", "name=resnet", "--set", `tags=["a"]`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": 10, "z": 3, "name": "resnet", "tags": ["a"]}`, out)

	data, err := afero.ReadFile(fs, documentPath)
	require.NoError(t, err)

	var doc struct {
		Steps map[string]struct {
			Parameters json.RawMessage `json:"parameters"`
		} `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.JSONEq(t, `{"x": 10, "z": 3, "name": "resnet", "tags": ["a"]}`, string(doc.Steps["a1"].Parameters))
	assert.JSONEq(t, `{"y": 2}`, string(doc.Steps["b2"].Parameters))
}

func TestUpdateInvalidInput(t *testing.T) {
	t.Parallel()

	tcs := map[string][]string{
		"not an object":  {"update", "--step-uuid", "a1", `[1, 2]`},
		"bad assignment": {"update", "--step-uuid", "a1", "--set", "novalue"},
		"empty key":      {"update", "--step-uuid", "a1", "--set", "=1"},
	}

	for name, args := range tcs {
		args := args

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fs := newFs(t)

			_, err := run(t, fs, args...)
			require.Error(t, err)

			data, err := afero.ReadFile(fs, documentPath)
			require.NoError(t, err)
			assert.Equal(t, document, string(data))
		})
	}
}

func TestGraph(t *testing.T) {
	t.Parallel()

	out, err := run(t, newFs(t), "graph", "--step-uuid", "b2")
	require.NoError(t, err)
	assert.Contains(t, out, `"a1" -> "b2"`)
	assert.Contains(t, out, `"b2" [ fillcolor=`)
}

func TestGraphToFile(t *testing.T) {
	t.Parallel()

	fs := newFs(t)

	out, err := run(t, fs, "graph", "--output", "/tmp/pipeline.dot")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := afero.ReadFile(fs, "/tmp/pipeline.dot")
	require.NoError(t, err)
	assert.Contains(t, string(data), `label="cli";`)
	assert.NotContains(t, string(data), "fillcolor")
}

func TestGraphWithUnknownStep(t *testing.T) {
	t.Parallel()

	out, err := run(t, newFs(t), "graph", "--step-uuid", "zz")
	require.NoError(t, err)
	assert.Contains(t, out, `"a1" -> "b2"`)
	assert.NotContains(t, out, "fillcolor")
}

func TestGraphWithoutDocument(t *testing.T) {
	t.Parallel()

	_, err := run(t, afero.NewMemMapFs(), "graph", "--step-uuid", "a1")

	var readErr *codec.DocumentReadError
	require.ErrorAs(t, err, &readErr)
}

func TestUpdateRejectsTrailingInput(t *testing.T) {
	t.Parallel()

	fs := newFs(t)

	_, err := run(t, fs, "update", "--step-uuid", "a1", `{"x": 10} junk`)
	require.ErrorIs(t, err, cmd.ErrTrailingInput)

	data, err := afero.ReadFile(fs, documentPath)
	require.NoError(t, err)
	assert.Equal(t, document, string(data))
}
