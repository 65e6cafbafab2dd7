package pipeline_test

import (
	"crypto/sha256"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const documentPath = "/pipeline-dir/pipeline.json"

const scenarioDocument = `{
	"name": "scenario",
	"settings": {"data_passing_memory_size": "1GB"},
	"steps": {
		"a1": {"uuid": "a1", "title": "A", "file_path": "a.ipynb", "parameters": {"x": 1}},
		"b2": {"uuid": "b2", "title": "B", "file_path": "b.py", "incoming_connections": ["a1"], "parameters": {"y": 2}}
	}
}`

func createDocument(t *testing.T, content string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, documentPath, []byte(content), 0o644))

	return fs
}

func hashDocument(t *testing.T, fs afero.Fs) [sha256.Size]byte {
	t.Helper()

	data, err := afero.ReadFile(fs, documentPath)
	require.NoError(t, err)

	return sha256.Sum256(data)
}
